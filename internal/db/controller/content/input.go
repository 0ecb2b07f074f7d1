package content

import (
	"strings"

	"github.com/CodeCraft-Studio/studio-site/internal/db/repository"
)

// Input is request data for one resource.
// A nil collection slice means the field was omitted, an empty one clears it.
type Input interface {
	Values() repository.Values
}

// ExpertInput is the writable part of an expert.
type ExpertInput struct {
	Name       string   `json:"name" form:"name" validate:"max=255" create:"required"`
	Role       string   `json:"role" form:"role" validate:"max=255" create:"required"`
	Bio        string   `json:"bio" form:"bio" validate:"max=10000"`
	Image      string   `json:"image" form:"image" validate:"max=1024"`
	Experience string   `json:"experience" form:"experience" validate:"max=100"`
	Expertise  []string `json:"expertise" form:"-" validate:"omitempty,dive,required,max=255"`
}

// Values implements Input.
func (in ExpertInput) Values() repository.Values {
	v := scalars(map[string]string{
		"name":       in.Name,
		"role":       in.Role,
		"bio":        in.Bio,
		"image":      in.Image,
		"experience": in.Experience,
	})
	collection(&v, "expertise", in.Expertise)

	return v
}

// ServiceInput is the writable part of a service.
type ServiceInput struct {
	Title       string   `json:"title" form:"title" validate:"max=255" create:"required"`
	Description string   `json:"description" form:"description" validate:"max=10000" create:"required"`
	Image       string   `json:"image" form:"image" validate:"max=1024"`
	Features    []string `json:"features" form:"-" validate:"omitempty,dive,required,max=255"`
	Benefits    []string `json:"benefits" form:"-" validate:"omitempty,dive,required,max=255"`
}

// Values implements Input.
func (in ServiceInput) Values() repository.Values {
	v := scalars(map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"image":       in.Image,
	})
	collection(&v, "features", in.Features)
	collection(&v, "benefits", in.Benefits)

	return v
}

// IndustryInput is the writable part of an industry.
type IndustryInput struct {
	Name        string `json:"name" form:"name" validate:"max=255" create:"required"`
	Description string `json:"description" form:"description" validate:"max=10000"`
	Image       string `json:"image" form:"image" validate:"max=1024"`
}

// Values implements Input.
func (in IndustryInput) Values() repository.Values {
	return scalars(map[string]string{
		"name":        in.Name,
		"description": in.Description,
		"image":       in.Image,
	})
}

// SplitLines turns a textarea value into a collection, one entry per
// non-blank line.
func SplitLines(text string) []string {
	out := []string{}

	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}

	return out
}

func scalars(m map[string]string) repository.Values {
	v := repository.Values{Scalars: make(map[string]string, len(m))}

	for k, s := range m {
		if s = strings.TrimSpace(s); s != "" {
			v.Scalars[k] = s
		}
	}

	return v
}

func collection(v *repository.Values, field string, values []string) {
	if values == nil {
		return
	}

	if v.Collections == nil {
		v.Collections = map[string][]string{}
	}

	v.Collections[field] = values
}
