// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// Action selects what Dedupe does with the scored records.
type Action string

const (
	// ActionStats attaches a Result to every record.
	ActionStats Action = "STATS"
	// ActionMark attaches the ok or dupe mark to every record.
	ActionMark Action = "MARK"
	// ActionDelete drops records scored at or above the threshold.
	ActionDelete Action = "DELETE"
)

// DupeRef selects how a duplicate links to its original.
type DupeRef string

const (
	// DupeRefIndex links by 0-based input position.
	DupeRefIndex DupeRef = "INDEX"
	// DupeRefRecNumber links by record number.
	DupeRefRecNumber DupeRef = "RECNUMBER"
)

// FieldWeight selects how per-field scores combine into a step score.
type FieldWeight string

const (
	// FieldWeightMinimum takes the lowest field score.
	FieldWeightMinimum FieldWeight = "MINIMUM"
	// FieldWeightAverage divides the sum of field scores by the number of
	// fields in the step, compared or not.
	FieldWeightAverage FieldWeight = "AVERAGE"
)

// Mark is the value MARK writes into the action field. It is either a
// literal or computed from the original record.
type Mark struct {
	value string
	fn    func(types.Record) string
}

// MarkValue returns a literal mark.
func MarkValue(s string) Mark {
	return Mark{value: s}
}

// MarkFunc returns a mark computed per record.
func MarkFunc(fn func(types.Record) string) Mark {
	return Mark{fn: fn}
}

// Resolve returns the mark for r.
func (m Mark) Resolve(r types.Record) string {
	if m.fn != nil {
		return m.fn(r)
	}
	return m.value
}

func (m Mark) String() string {
	if m.fn != nil {
		return "<func>"
	}
	return m.value
}

// Settings controls one Dedupe call.
type Settings struct {
	Strategy         string
	ValidateStrategy bool
	Action           Action
	ActionField      string
	Threshold        float64
	MarkOK           Mark
	MarkDupe         Mark
	DupeRef          DupeRef
	FieldWeight      FieldWeight
	MarkOriginal     bool
}

// DefaultSettings returns the settings used when no option overrides them.
func DefaultSettings() Settings {
	return Settings{
		Strategy:         "clark",
		ValidateStrategy: true,
		Action:           ActionStats,
		ActionField:      "dedupe",
		Threshold:        0.1,
		MarkOK:           MarkValue("OK"),
		MarkDupe:         MarkValue("DUPE"),
		DupeRef:          DupeRefIndex,
		FieldWeight:      FieldWeightMinimum,
		MarkOriginal:     false,
	}
}

// Option overrides one setting.
type Option func(*Settings)

// NewSettings applies opts over DefaultSettings.
func NewSettings(opts ...Option) Settings {
	s := DefaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Setting overrides, one per field of Settings.
func WithStrategy(name string) Option { return func(s *Settings) { s.Strategy = name } }
func WithValidateStrategy(v bool) Option { return func(s *Settings) { s.ValidateStrategy = v } }
func WithAction(a Action) Option { return func(s *Settings) { s.Action = a } }
func WithActionField(name string) Option { return func(s *Settings) { s.ActionField = name } }
func WithThreshold(t float64) Option { return func(s *Settings) { s.Threshold = t } }
func WithMarkOK(m Mark) Option { return func(s *Settings) { s.MarkOK = m } }
func WithMarkDupe(m Mark) Option { return func(s *Settings) { s.MarkDupe = m } }
func WithDupeRef(r DupeRef) Option { return func(s *Settings) { s.DupeRef = r } }
func WithFieldWeight(w FieldWeight) Option { return func(s *Settings) { s.FieldWeight = w } }
func WithMarkOriginal(v bool) Option { return func(s *Settings) { s.MarkOriginal = v } }
func WithSettings(settings Settings) Option { return func(s *Settings) { *s = settings } }

// FromConfig converts file or environment configuration into options.
// Empty strings and a zero threshold leave the defaults in place; the
// boolean switches are always applied.
func FromConfig(cfg types.DedupeConfig) []Option {
	opts := []Option{
		WithValidateStrategy(cfg.ValidateStrategy),
		WithMarkOriginal(cfg.MarkOriginal),
	}
	if cfg.Strategy != "" {
		opts = append(opts, WithStrategy(cfg.Strategy))
	}
	if cfg.Action != "" {
		opts = append(opts, WithAction(Action(strings.ToUpper(cfg.Action))))
	}
	if cfg.ActionField != "" {
		opts = append(opts, WithActionField(cfg.ActionField))
	}
	if cfg.Threshold != 0 {
		opts = append(opts, WithThreshold(cfg.Threshold))
	}
	if cfg.MarkOK != "" {
		opts = append(opts, WithMarkOK(MarkValue(cfg.MarkOK)))
	}
	if cfg.MarkDupe != "" {
		opts = append(opts, WithMarkDupe(MarkValue(cfg.MarkDupe)))
	}
	if cfg.DupeRef != "" {
		opts = append(opts, WithDupeRef(DupeRef(strings.ToUpper(cfg.DupeRef))))
	}
	if cfg.FieldWeight != "" {
		opts = append(opts, WithFieldWeight(FieldWeight(strings.ToUpper(cfg.FieldWeight))))
	}
	return opts
}

// Validate checks the enumerated settings.
func (s Settings) Validate() error {
	switch s.Action {
	case ActionStats, ActionMark, ActionDelete:
	default:
		return fmt.Errorf("%w: action %q is not one of STATS, MARK, DELETE", ErrInvalidSettings, s.Action)
	}
	switch s.DupeRef {
	case DupeRefIndex, DupeRefRecNumber:
	default:
		return fmt.Errorf("%w: dupe ref %q is not one of INDEX, RECNUMBER", ErrInvalidSettings, s.DupeRef)
	}
	switch s.FieldWeight {
	case FieldWeightMinimum, FieldWeightAverage:
	default:
		return fmt.Errorf("%w: field weight %q is not one of MINIMUM, AVERAGE", ErrInvalidSettings, s.FieldWeight)
	}
	if s.Action != ActionDelete && s.ActionField == "" {
		return fmt.Errorf("%w: action field is empty", ErrInvalidSettings)
	}
	if math.IsNaN(s.Threshold) || s.Threshold < 0 || s.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v is outside [0, 1]", ErrInvalidSettings, s.Threshold)
	}
	return nil
}
