package conf

import (
	"sort"
	"strconv"
	"strings"

	"github.com/alyu/configparser"
	"github.com/mensio/brickstat/bucket"
	"github.com/mensio/brickstat/errors"
	"github.com/mensio/brickstat/survey"
)

// Profile is a named set of analysis parameters.
type Profile struct {
	Name                string
	WidthStep           float64
	HeightStep          float64
	Module              float64
	Materials           []string
	IncludeUnclassified bool
}

// Params returns the workflow parameters of the profile.
func (p Profile) Params(format bucket.Format) survey.Params {
	return survey.Params{
		WidthStep:  p.WidthStep,
		HeightStep: p.HeightStep,
		Module:     p.Module,
		Filter: survey.Filter{
			Types:               p.Materials,
			IncludeUnclassified: p.IncludeUnclassified,
		},
		Format: format,
	}
}

func (p Profile) validate() error {
	if err := bucket.ValidateStep("["+p.Name+"]: width", p.WidthStep); err != nil {
		return err
	}
	if err := bucket.ValidateStep("["+p.Name+"]: height", p.HeightStep); err != nil {
		return err
	}
	if !(p.Module >= 0) {
		return errors.NewConfig("[%s]: module must be 0 (disabled) or greater than 0, got %v", p.Name, p.Module)
	}
	return nil
}

// the built-in profiles
const (
	ProfileBricks     = "bricks"
	ProfileComponents = "components"
)

// RomanFoot is the default module of the component analysis, in meters.
const RomanFoot = 0.296

func defaultProfiles() map[string]Profile {
	return map[string]Profile{
		ProfileBricks: {
			Name:       ProfileBricks,
			WidthStep:  0.004,
			HeightStep: 0.002,
		},
		ProfileComponents: {
			Name:       ProfileComponents,
			WidthStep:  0.01,
			HeightStep: 0.01,
			Module:     RomanFoot,
		},
	}
}

// Profiles holds the profile definitions
type Profiles struct {
	Data map[string]Profile
}

// NewProfiles returns the built-in profiles
func NewProfiles() Profiles {
	return Profiles{Data: defaultProfiles()}
}

// Get returns the profile called name.
func (p Profiles) Get(name string) (Profile, error) {
	prof, ok := p.Data[name]
	if !ok {
		return Profile{}, errors.NewConfig("unknown profile %q. known profiles: %s", name, strings.Join(p.Names(), ", "))
	}
	return prof, nil
}

// Names returns the profile names, sorted.
func (p Profiles) Names() []string {
	names := make([]string, 0, len(p.Data))
	for n := range p.Data {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ReadProfiles returns the profiles defined in an ini file, on top of the
// built-in ones. A section named like a built-in profile starts from it,
// so it only needs to set the keys it changes. Other sections start from
// the bricks profile.
func ReadProfiles(file string) (Profiles, error) {
	config, err := configparser.Read(file)
	if err != nil {
		return Profiles{}, errors.NewConfig("reading profiles: %s", err)
	}
	sections, err := config.AllSections()
	if err != nil {
		return Profiles{}, errors.NewConfig("reading profiles: %s", err)
	}

	result := NewProfiles()

	for _, s := range sections {
		name := strings.Trim(strings.SplitN(s.String(), "\n", 2)[0], " []")
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		item, ok := result.Data[name]
		if !ok {
			item = result.Data[ProfileBricks]
			item.Materials = nil
			item.IncludeUnclassified = false
		}
		item.Name = name

		for _, f := range []struct {
			key string
			dst *float64
		}{
			{"width-step", &item.WidthStep},
			{"height-step", &item.HeightStep},
			{"module", &item.Module},
		} {
			str := value(s.ValueOf(f.key))
			if str == "" {
				continue
			}
			*f.dst, err = strconv.ParseFloat(str, 64)
			if err != nil {
				return Profiles{}, errors.NewConfig("[%s]: failed to parse %s %q: %s", name, f.key, str, err)
			}
		}

		if str := value(s.ValueOf("materials")); str != "" {
			item.Materials = survey.ParseMaterials(str)
		}
		if str := value(s.ValueOf("include-unclassified")); str != "" {
			item.IncludeUnclassified, err = strconv.ParseBool(str)
			if err != nil {
				return Profiles{}, errors.NewConfig("[%s]: failed to parse include-unclassified %q: %s", name, str, err)
			}
		}

		if err := item.validate(); err != nil {
			return Profiles{}, err
		}
		result.Data[name] = item
	}

	return result, nil
}

// value strips a trailing comment from an option value.
func value(s string) string {
	for _, marker := range []string{" #", " ;"} {
		if i := strings.Index(s, marker); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
