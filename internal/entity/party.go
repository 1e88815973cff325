package entity

import "github.com/samdwyer/dungeonrooms/internal/world"

// Party represents the player's party. It sits in one room at a time.
type Party struct {
	Room   world.Coordinate // Room the party is in
	Pos    world.Coordinate // Position inside that room
	Symbol rune             // Display symbol
}

// NewParty creates a party in the given room.
func NewParty(room world.Coordinate) *Party {
	return &Party{
		Room:   room,
		Symbol: '&',
	}
}

// MoveTo places the party in a room at the given position.
func (p *Party) MoveTo(room, pos world.Coordinate) {
	p.Room = room
	p.Pos = pos
}
