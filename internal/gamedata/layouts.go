package gamedata

// SpawnDef is one entity placed by a room layout.
type SpawnDef struct {
	Role  string `json:"role"`  // hostile, trap, item, container or spawn_marker
	Tag   string `json:"tag"`   // Free-form data; door name for spawn markers
	X     int    `json:"x"`     // Position inside the room
	Y     int    `json:"y"`
	Enemy string `json:"enemy"` // Enemy id for hostiles; empty picks a weighted random one
}

// LayoutDef lists the entities instantiated for rooms of one category.
type LayoutDef struct {
	Category string     `json:"category"`
	Spawns   []SpawnDef `json:"spawns"`
}

// LayoutsFile represents the structure of layouts.json.
type LayoutsFile struct {
	// Fallback is used for categories without their own layout.
	Fallback LayoutDef   `json:"fallback"`
	Layouts  []LayoutDef `json:"layouts"`
}

// LoadLayouts loads room layouts from the embedded layouts.json file.
func LoadLayouts() (*LayoutsFile, error) {
	file, err := Load[LayoutsFile]("layouts.json")
	if err != nil {
		return nil, err
	}
	return &file, nil
}
