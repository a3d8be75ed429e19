package models

// Record is implemented by every normalized record shape.
type Record interface {
	Kind() Kind
	RecordID() int
	DisplayName() string
}

// Item represents an inventory item entry.
type Item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Student represents a playable student entry.
type Student struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Equipment represents a piece of gear. Field order matches the output format.
type Equipment struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Rarity   Rarity `json:"rarity"`
	Tier     int    `json:"tier"`
	Icon     string `json:"icon"`
	Name     string `json:"name"`
}

// Kind implements Record.
func (Item) Kind() Kind { return KindItem }

// RecordID implements Record.
func (i Item) RecordID() int { return i.ID }

// DisplayName implements Record.
func (i Item) DisplayName() string { return i.Name }

// Kind implements Record.
func (Student) Kind() Kind { return KindStudent }

// RecordID implements Record.
func (s Student) RecordID() int { return s.ID }

// DisplayName implements Record.
func (s Student) DisplayName() string { return s.Name }

// Kind implements Record.
func (Equipment) Kind() Kind { return KindEquipment }

// RecordID implements Record.
func (e Equipment) RecordID() int { return e.ID }

// DisplayName implements Record.
func (e Equipment) DisplayName() string { return e.Name }
