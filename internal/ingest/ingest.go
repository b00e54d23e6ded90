// Package ingest decodes structure files (JSON or YAML) into engine inputs.
// Malformed members are excluded and reported as anomalies; they never abort
// the run.
package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"girder/pkg/geom"
	"girder/pkg/model"
)

// Structure is the on-disk input schema.
type Structure struct {
	Name    string        `json:"name" yaml:"name"`
	Members []MemberInput `json:"members" yaml:"members" validate:"required,min=1"`
	Joints  []JointInput  `json:"joints,omitempty" yaml:"joints,omitempty"`
}

// MemberInput is one member record before validation.
type MemberInput struct {
	ID       string    `json:"id" yaml:"id" validate:"required"`
	Kind     string    `json:"kind" yaml:"kind" validate:"required,oneof=beam column brace"`
	Start    geom.Vec3 `json:"start" yaml:"start"`
	End      geom.Vec3 `json:"end" yaml:"end"`
	Profile  string    `json:"profile" yaml:"profile"`
	Material string    `json:"material" yaml:"material"`
}

// JointInput is an externally supplied joint. The resolver validates its
// position against the member geometry; here only the shape is checked.
type JointInput struct {
	ID       string    `json:"id" yaml:"id" validate:"required"`
	Position geom.Vec3 `json:"position" yaml:"position"`
	Members  []string  `json:"members" yaml:"members" validate:"min=2"`
}

// Result is the engine-ready input set plus the anomalies produced while
// building it.
type Result struct {
	Name      string
	Members   []model.Member
	Joints    []model.Joint
	Anomalies []model.Anomaly
}

var validate = validator.New()

// DecodeFile reads and decodes a structure file, detecting the format from
// the extension.
func DecodeFile(path string) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read structure: %w", err)
	}
	s, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Decode parses a structure from bytes. ext hints the format (".json",
// ".yaml", ".yml"); empty means detect from content.
func Decode(data []byte, ext string) (*Structure, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}

	var s Structure
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse structure json: %w", err)
		}
	case ".yaml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse structure yaml: %w", err)
		}
	default:
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			if err := json.Unmarshal(data, &s); err != nil {
				return nil, fmt.Errorf("parse structure json: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse structure yaml: %w", err)
		}
	}

	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid structure: %w", err)
	}
	return &s, nil
}

// Build converts the decoded records into engine inputs. Invalid members and
// joints are excluded and reported, not fatal.
func (s *Structure) Build(log *slog.Logger) Result {
	if log == nil {
		log = slog.Default()
	}
	res := Result{Name: s.Name}

	for _, in := range s.Members {
		if err := validate.Struct(in); err != nil {
			res.Anomalies = append(res.Anomalies, model.Anomaly{
				Code:       "MEMBER_INVALID",
				Message:    err.Error(),
				ElementIDs: []string{in.ID},
			})
			log.Warn("member excluded", "member", in.ID, "err", err)
			continue
		}
		m, err := model.NewMember(in.ID, model.MemberKind(in.Kind), in.Start, in.End, in.Profile, in.Material)
		if err != nil {
			res.Anomalies = append(res.Anomalies, model.Anomaly{
				Code:       "MEMBER_INVALID",
				Message:    err.Error(),
				ElementIDs: []string{in.ID},
			})
			log.Warn("member excluded", "member", in.ID, "err", err)
			continue
		}
		res.Members = append(res.Members, m)
	}

	for _, in := range s.Joints {
		if err := validate.Struct(in); err != nil {
			res.Anomalies = append(res.Anomalies, model.Anomaly{
				Code:       "SUPPLIED_JOINT_INVALID",
				Message:    err.Error(),
				ElementIDs: []string{in.ID},
			})
			log.Warn("supplied joint excluded", "joint", in.ID, "err", err)
			continue
		}
		j, err := model.NewJoint(in.ID, in.Position, in.Members, true)
		if err != nil {
			res.Anomalies = append(res.Anomalies, model.Anomaly{
				Code:       "SUPPLIED_JOINT_INVALID",
				Message:    err.Error(),
				ElementIDs: []string{in.ID},
			})
			log.Warn("supplied joint excluded", "joint", in.ID, "err", err)
			continue
		}
		res.Joints = append(res.Joints, j)
	}
	return res
}
