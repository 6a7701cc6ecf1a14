// Package config handles loading and saving user configuration for kosh.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProfileFile is the name of the discriminator profile inside the config directory.
const ProfileFile = "profile.yaml"

// Config holds all user configuration for kosh.
type Config struct {
	Profile Profile `yaml:"profile"`
}

// Profile describes how a particular dictionary typesets its fields.
type Profile struct {
	Name               string    `yaml:"name"`
	WordFont           string    `yaml:"word_font"`           // Head-word typeface
	WordMaxSize        float64   `yaml:"word_max_size"`       // Head-word glyphs are strictly smaller than this
	PronunciationFonts []string  `yaml:"pronunciation_fonts"` // Red-ink reading typefaces
	TranscriptionFont  string    `yaml:"transcription_font"`  // Black phonetic-alphabet typeface
	GlossFonts         []string  `yaml:"gloss_fonts"`         // Roman and italic prose typefaces
	Red                []float64 `yaml:"red"`
	Black              []float64 `yaml:"black"`
	Green              []float64 `yaml:"green"`
	ColorTolerance     float64   `yaml:"color_tolerance"` // Per-channel; 0 means exact match
	FirstPage          int       `yaml:"first_page"`
	LastPage           int       `yaml:"last_page"` // Negative means through the last page
}

// DefaultProfile returns the profile of the reference Gujarati-English dictionary.
func DefaultProfile() Profile {
	return Profile{
		Name:               "gujarati-english",
		WordFont:           "LPDJPP+HitarthGujPrachiNormal",
		WordMaxSize:        12.5,
		PronunciationFonts: []string{"LPDDKK+TimesNewRoman", "LPDLOD+IPAPhonRoman"},
		TranscriptionFont:  "LPDLOD+IPAPhonRoman",
		GlossFonts:         []string{"LPDDKK+TimesNewRoman", "LPDIJO+TimesNewRoman,Italic"},
		Red:                []float64{1, 0, 0},
		Black:              []float64{0, 0, 0},
		Green:              []float64{0, 0.502, 0},
		ColorTolerance:     0.005,
		FirstPage:          11,
		LastPage:           235,
	}
}

// Validate checks that a profile can drive the classifier.
func (p Profile) Validate() error {
	var errs []error
	if p.WordFont == "" {
		errs = append(errs, errors.New("word_font is empty"))
	}
	if p.WordMaxSize <= 0 {
		errs = append(errs, fmt.Errorf("word_max_size must be positive, got %v", p.WordMaxSize))
	}
	if len(p.PronunciationFonts) == 0 {
		errs = append(errs, errors.New("pronunciation_fonts is empty"))
	}
	if p.TranscriptionFont == "" {
		errs = append(errs, errors.New("transcription_font is empty"))
	}
	if len(p.GlossFonts) == 0 {
		errs = append(errs, errors.New("gloss_fonts is empty"))
	}
	for name, c := range map[string][]float64{"red": p.Red, "black": p.Black, "green": p.Green} {
		if err := validateColor(c); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if p.ColorTolerance < 0 {
		errs = append(errs, fmt.Errorf("color_tolerance must not be negative, got %v", p.ColorTolerance))
	}
	if p.LastPage >= 0 && p.LastPage < p.FirstPage {
		errs = append(errs, fmt.Errorf("last_page %d is before first_page %d", p.LastPage, p.FirstPage))
	}
	return errors.Join(errs...)
}

func validateColor(c []float64) error {
	if len(c) != 3 {
		return fmt.Errorf("want 3 components, got %d", len(c))
	}
	for _, v := range c {
		if v < 0 || v > 1 {
			return fmt.Errorf("component %v outside [0,1]", v)
		}
	}
	return nil
}

// LoadProfile loads a discriminator profile from a YAML file.
// Fields missing from the file keep their default values.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile file: %w", err)
	}

	var cfg struct {
		Profile Profile `yaml:"profile"`
	}
	cfg.Profile = DefaultProfile()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Profile{}, fmt.Errorf("parsing profile file: %w", err)
	}

	if err := cfg.Profile.Validate(); err != nil {
		return Profile{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return cfg.Profile, nil
}

// SaveProfile saves a discriminator profile to a YAML file.
func SaveProfile(path string, p Profile) error {
	data := Config{Profile: p}

	out, err := yaml.Marshal(&data)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing profile file: %w", err)
	}

	return nil
}

// LoadConfig loads all configuration from a directory.
// A directory without a profile yields the default profile.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ProfileFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &Config{Profile: DefaultProfile()}, nil
	}

	profile, err := LoadProfile(path)
	if err != nil {
		return nil, err
	}

	return &Config{Profile: profile}, nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kosh"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
