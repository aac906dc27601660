package curriculum

// File is the top-level YAML document.
type File struct {
	Name   string       `yaml:"name"`
	Topics []Definition `yaml:"topics"`
}

// Definition is a topic as authored in the curriculum file.
type Definition struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Prerequisites []string `yaml:"prerequisites"`

	// Progress is the default used until a persisted value exists.
	Progress int `yaml:"progress"`
}
