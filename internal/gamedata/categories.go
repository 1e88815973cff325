package gamedata

// CategoryDef describes a room category. Special categories (initial, boss, challenge)
// are placed by the generator and never drawn from the weighted pool.
type CategoryDef struct {
	ID         string  `json:"id"`         // Label handed to the content loader (e.g., "treasure")
	Name       string  `json:"name"`       // Display name (e.g., "Treasure Vault")
	Weight     float64 `json:"weight"`     // Base draw weight
	Difficulty float64 `json:"difficulty"` // Enemy stat multiplier for rooms of this category
	// Affinity scales how strongly the weight follows the difficulty multiplier.
	// Positive values grow more common as the player progresses, negative ones rarer.
	Affinity float64 `json:"affinity"`
	Color    string  `json:"color"` // Hex color for map rendering
	Special  bool    `json:"special"`
}

// CategoriesFile represents the structure of categories.json.
type CategoriesFile struct {
	Categories []CategoryDef `json:"categories"`
}

// LoadCategories loads category definitions from the embedded categories.json file.
func LoadCategories() ([]CategoryDef, error) {
	file, err := Load[CategoriesFile]("categories.json")
	if err != nil {
		return nil, err
	}
	return file.Categories, nil
}
