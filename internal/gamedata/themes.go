package gamedata

// ThemeDef is a cosmetic and difficulty-biasing profile for the whole dungeon.
//
// JSON shape:
//
//	{
//	  "id": "crypt",
//	  "name": "Forgotten Crypt",
//	  "starter": true,
//	  "enemyDifficulty": 1.0,
//	  "prefixes": ["Dusty", "Silent"],
//	  "suffixes": ["of Bones"],
//	  "categoryBias": {"treasure": 1.2}
//	}
//
// Categories missing from categoryBias have a bias of 1.
type ThemeDef struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Starter         bool               `json:"starter"`
	EnemyDifficulty float64            `json:"enemyDifficulty"`
	Prefixes        []string           `json:"prefixes"`
	Suffixes        []string           `json:"suffixes"`
	CategoryBias    map[string]float64 `json:"categoryBias"`
}

// Bias returns the theme's weight factor for a category.
func (t *ThemeDef) Bias(category string) float64 {
	if b, ok := t.CategoryBias[category]; ok {
		return b
	}
	return 1
}

// ThemesFile represents the structure of themes.json.
type ThemesFile struct {
	Themes []ThemeDef `json:"themes"`
}

// LoadThemes loads theme definitions from the embedded themes.json file.
func LoadThemes() ([]ThemeDef, error) {
	file, err := Load[ThemesFile]("themes.json")
	if err != nil {
		return nil, err
	}
	return file.Themes, nil
}
