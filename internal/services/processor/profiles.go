package processor

import (
	"fmt"
	"os"
	"sort"

	"github.com/phambaophuc/growth-journal/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	ProfilePhoto          = "photo"
	ProfilePhotoThumbnail = "photo_thumbnail"
	ProfileTripPhoto      = "trip_photo"
	ProfileTripThumbnail  = "trip_thumbnail"
	ProfileAvatar         = "avatar"

	// MaxAvatarSize is the hard cap enforced after the avatar is re-encoded.
	MaxAvatarSize = 2 * 1024 * 1024
)

// DefaultProfiles returns the policies used by the album, trip and profile uploads.
// An empty MimeType means the output follows the uploaded file's format.
func DefaultProfiles() map[string]models.EncodingPolicy {
	return map[string]models.EncodingPolicy{
		ProfilePhoto: {
			MaxDimension:           1400,
			TargetSizeBytes:        600_000,
			KeepOriginalUnderBytes: 1_000_000,
			InitialQuality:         0.90,
			MinQuality:             0.75,
		},
		ProfilePhotoThumbnail: {
			MaxDimension:           400,
			TargetSizeBytes:        90_000,
			KeepOriginalUnderBytes: 150_000,
			InitialQuality:         0.88,
			MinQuality:             0.72,
		},
		ProfileTripPhoto: {
			MimeType:               models.MimeJPEG,
			MaxDimension:           1800,
			TargetSizeBytes:        950_000,
			KeepOriginalUnderBytes: 1_200_000,
			InitialQuality:         0.92,
			MinQuality:             0.78,
		},
		ProfileTripThumbnail: {
			MimeType:               models.MimeJPEG,
			MaxDimension:           600,
			TargetSizeBytes:        220_000,
			KeepOriginalUnderBytes: 250_000,
			InitialQuality:         0.85,
			MinQuality:             0.70,
		},
		ProfileAvatar: {
			MimeType:               models.MimeJPEG,
			MaxDimension:           512,
			TargetSizeBytes:        MaxAvatarSize,
			KeepOriginalUnderBytes: MaxAvatarSize,
			InitialQuality:         0.85,
			MinQuality:             0.40,
			DimensionFloor:         128,
			ShrinkFactor:           0.90,
			MaxRounds:              24,
			ClampToFloor:           true,
		},
	}
}

// Profiles is a named set of encoding policies.
type Profiles struct {
	policies map[string]models.EncodingPolicy
}

func NewProfiles(policies map[string]models.EncodingPolicy) (*Profiles, error) {
	p := &Profiles{policies: make(map[string]models.EncodingPolicy, len(policies))}
	for name, policy := range policies {
		policy = policy.WithDefaults()
		if err := ValidatePolicy(policy); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		p.policies[name] = policy
	}
	return p, nil
}

// LoadProfiles starts from the defaults and applies overrides from a YAML file, if any.
// Fields missing from an override keep their default value.
func LoadProfiles(path string) (*Profiles, error) {
	policies := DefaultProfiles()
	if path == "" {
		return NewProfiles(policies)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var overrides map[string]yaml.Node
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	for name, node := range overrides {
		policy := policies[name]
		if err := node.Decode(&policy); err != nil {
			return nil, fmt.Errorf("failed to parse profile %q: %w", name, err)
		}
		policies[name] = policy
	}

	return NewProfiles(policies)
}

func (p *Profiles) Get(name string) (models.EncodingPolicy, error) {
	policy, ok := p.policies[name]
	if !ok {
		return models.EncodingPolicy{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return policy, nil
}

func (p *Profiles) Names() []string {
	names := make([]string, 0, len(p.policies))
	for name := range p.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Profiles) All() map[string]models.EncodingPolicy {
	out := make(map[string]models.EncodingPolicy, len(p.policies))
	for name, policy := range p.policies {
		out[name] = policy
	}
	return out
}
