// Package service defines the Service value produced by discovery and
// consumed by the impact resolver, plus its monotonic BuildTrigger.
package service

import (
	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
	"github.com/monodeps/monodeps/internal/pathinfo"
)

// TriggerKind is the tagged reason a Service appears in a resolver result.
type TriggerKind int

const (
	TriggerFileChange TriggerKind = iota
	TriggerDependency
	TriggerPeerDependency
	TriggerGlobalDependency
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerFileChange:
		return "file-change"
	case TriggerDependency:
		return "dependency"
	case TriggerPeerDependency:
		return "peer-dependency"
	case TriggerGlobalDependency:
		return "global-dependency"
	default:
		return "unknown"
	}
}

// Trigger records why a service was marked as impacted: the kind, the
// changed-path (or dependent service path) that caused it, and whether a
// Dependency/PeerDependency trigger matched an auto-discovered pattern.
type Trigger struct {
	Kind   TriggerKind
	Source string
	Auto   bool
}

// Service is a directory containing a recognized marker file: the atomic
// unit of the build-impact output.
type Service struct {
	Dir       pathinfo.Info
	Languages []language.Language
	Declared  []deppattern.Pattern
	Auto      []deppattern.Pattern

	trigger *Trigger
}

// Trigger returns the service's assigned cause, or nil if none has been set
// yet.
func (s *Service) Trigger() *Trigger {
	return s.trigger
}

// SetTrigger assigns t as s's cause if none is set yet, and reports whether
// the assignment took effect. Triggers are set-once: the first attributed
// cause wins and later calls are no-ops, matching the resolver's
// monotonic-trigger invariant.
func (s *Service) SetTrigger(t Trigger) bool {
	if s.trigger != nil {
		return false
	}
	s.trigger = &t
	return true
}

// AllPatterns returns the service's declared and auto-discovered
// dependency patterns combined, the set the resolver matches changed files
// against in phases 4 and 5.
func (s *Service) AllPatterns() []deppattern.Pattern {
	out := make([]deppattern.Pattern, 0, len(s.Declared)+len(s.Auto))
	out = append(out, s.Declared...)
	out = append(out, s.Auto...)
	return out
}
