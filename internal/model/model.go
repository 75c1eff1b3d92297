package model

import (
	"github.com/LeonardoBeccarini/cultiverse/internal/model/entities"
	"github.com/LeonardoBeccarini/cultiverse/internal/model/messages"
)

// Aliases for the types shared across services.

type (
	SelectionChangedEvent = messages.SelectionChangedEvent
	Farm                  = entities.Farm
	Zone                  = entities.Zone
	Sensor                = entities.Sensor
	Alert                 = entities.Alert
)
