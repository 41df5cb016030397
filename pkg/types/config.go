package types

// DedupeConfig holds the engine settings as read from a config file,
// environment, or flags. Field names follow the engine settings; zero
// values are filled from defaults by the loader, not by the engine.
type DedupeConfig struct {
	// Strategy names the strategy to run (default "clark").
	Strategy string `json:"strategy" yaml:"strategy" mapstructure:"strategy"`

	// ValidateStrategy runs structural validation before deduping (default true).
	ValidateStrategy bool `json:"validate_strategy" yaml:"validate_strategy" mapstructure:"validate_strategy"`

	// Action is one of STATS, MARK, DELETE (default STATS).
	Action string `json:"action" yaml:"action" mapstructure:"action"`

	// ActionField is the key under which results are attached (default "dedupe").
	ActionField string `json:"action_field" yaml:"action_field" mapstructure:"action_field"`

	// Threshold is the aggregate score at which a record counts as a duplicate (default 0.1).
	Threshold float64 `json:"threshold" yaml:"threshold" mapstructure:"threshold"`

	// MarkOK is written by MARK for records below the threshold (default "OK").
	MarkOK string `json:"mark_ok" yaml:"mark_ok" mapstructure:"mark_ok"`

	// MarkDupe is written by MARK for records at or above the threshold (default "DUPE").
	MarkDupe string `json:"mark_dupe" yaml:"mark_dupe" mapstructure:"mark_dupe"`

	// DupeRef is RECNUMBER or INDEX (default INDEX).
	DupeRef string `json:"dupe_ref" yaml:"dupe_ref" mapstructure:"dupe_ref"`

	// FieldWeight is MINIMUM or AVERAGE (default MINIMUM).
	FieldWeight string `json:"field_weight" yaml:"field_weight" mapstructure:"field_weight"`

	// MarkOriginal records the true similarity score on originals.
	MarkOriginal bool `json:"mark_original" yaml:"mark_original" mapstructure:"mark_original"`

	// StrategiesDir holds extra strategy YAML files registered at startup.
	StrategiesDir string `json:"strategies_dir,omitempty" yaml:"strategies_dir,omitempty" mapstructure:"strategies_dir"`
}

// LibraryConfig holds settings for the SQLite reference library.
type LibraryConfig struct {
	// LibraryDir is the directory containing library.db.
	LibraryDir string `json:"library_dir" yaml:"library_dir" mapstructure:"library_dir"`

	// MaxResults is the default maximum number of rows returned by listings (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
