// Package resolve implements the five-phase impact resolver: canonicalize
// changed paths, short-circuit on global dependencies, attribute direct file
// changes to owning services, match declared/auto dependencies, then
// propagate to peer services until a fixpoint — grounded on the teacher's
// internal/interproc deterministic sorted-worklist fixpoint shape, adapted
// from capability-summary propagation to trigger propagation.
package resolve

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/pathinfo"
	"github.com/monodeps/monodeps/internal/service"
)

// Config is the subset of configuration the resolver needs: the raw global
// dependency patterns, compiled against the repository root at Resolve time.
type Config struct {
	GlobalDependencies []string
}

// Resolve runs all five phases against services, mutating each Service's
// trigger in place, and returns the subset whose trigger ended up set.
// Warnings describe global dependency patterns that fail to compile and
// changed files with no owning service; they never cause a non-nil error.
func Resolve(services []*service.Service, changed []string, cfg Config, repoRoot string) ([]*service.Service, []string, error) {
	var warnings []string

	canonChanged := canonicalize(changed, repoRoot)

	triggered, globalWarnings := globalShortCircuit(services, canonChanged, cfg, repoRoot)
	warnings = append(warnings, globalWarnings...)
	if triggered {
		return matched(services), warnings, nil
	}

	warnings = append(warnings, attributeFileChanges(services, canonChanged, pathinfo.New(".", repoRoot).Canonical)...)

	matchDirect(services, canonChanged)

	propagatePeers(services, canonChanged)

	return matched(services), warnings, nil
}

// canonicalize resolves each raw changed path against repoRoot (phase 1).
func canonicalize(changed []string, repoRoot string) []string {
	out := make([]string, len(changed))
	for i, c := range changed {
		out[i] = pathinfo.New(c, repoRoot).Canonical
	}
	return out
}

// globalShortCircuit implements phase 2: if any global-dependency pattern
// matches any canonicalized changed file, every service is marked
// GlobalDependency and the caller should stop after this phase. A pattern
// that fails to compile is dropped and reported as a warning.
func globalShortCircuit(services []*service.Service, canonChanged []string, cfg Config, repoRoot string) (bool, []string) {
	var patterns []deppattern.Pattern
	var warnings []string
	for _, raw := range cfg.GlobalDependencies {
		pat, err := deppattern.Compile(raw, repoRoot)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("global dependency pattern %q failed to compile: %v", raw, err))
			continue
		}
		patterns = append(patterns, pat)
	}

	hit := false
	for _, pat := range patterns {
		for _, c := range canonChanged {
			if pat.Matches(c) {
				hit = true
				break
			}
		}
		if hit {
			break
		}
	}
	if !hit {
		return false, warnings
	}

	for _, svc := range services {
		svc.SetTrigger(service.Trigger{Kind: service.TriggerGlobalDependency})
	}
	return true, warnings
}

// attributeFileChanges implements phase 3: for each changed file, walk its
// ancestor directories up to (not beyond) the repository root, setting the
// FileChange trigger on the first ancestor that is a known service's
// canonical directory. A changed file with no owning ancestor is warned
// about and otherwise ignored.
func attributeFileChanges(services []*service.Service, canonChanged []string, root string) []string {
	byDir := make(map[string]*service.Service, len(services))
	for _, svc := range services {
		byDir[svc.Dir.Canonical] = svc
	}

	var warnings []string
	for _, c := range canonChanged {
		owner := findOwningService(c, root, byDir)
		if owner == nil {
			warnings = append(warnings, fmt.Sprintf("changed file outside any service: %s", c))
			continue
		}
		owner.SetTrigger(service.Trigger{Kind: service.TriggerFileChange, Source: c})
	}
	return warnings
}

func findOwningService(changed, root string, byDir map[string]*service.Service) *service.Service {
	dir := filepath.Dir(changed)
	for {
		if svc, ok := byDir[dir]; ok {
			return svc
		}
		parent := filepath.Dir(dir)
		if dir == root || parent == dir {
			return nil
		}
		dir = parent
	}
}

// matchDirect implements phase 4: for every untriggered service, test each
// changed file against its declared and auto-discovered patterns, recording
// a Dependency trigger on first match.
func matchDirect(services []*service.Service, canonChanged []string) {
	for _, svc := range services {
		if svc.Trigger() != nil {
			continue
		}
		matchAgainst(svc, canonChanged, service.TriggerDependency)
	}
}

// propagatePeers implements phase 5: services newly triggered in phases 3+4
// become the next round's "changed paths" (their own directory), matched
// against still-untriggered services as PeerDependency. This repeats until
// a round yields no new triggers; termination is guaranteed because the
// triggered set only grows within the finite set of services.
func propagatePeers(services []*service.Service, canonChanged []string) {
	frontier := triggeredDirs(services)

	for len(frontier) > 0 {
		var next []string
		for _, svc := range services {
			if svc.Trigger() != nil {
				continue
			}
			if matchAgainst(svc, frontier, service.TriggerPeerDependency) {
				next = append(next, svc.Dir.Canonical)
			}
		}
		frontier = next
	}
}

// matchAgainst tests source paths against svc's combined pattern list in a
// deterministic order, recording the first match with the given trigger
// kind. It reports whether a trigger was newly set.
func matchAgainst(svc *service.Service, sources []string, kind service.TriggerKind) bool {
	sorted := append([]string(nil), sources...)
	sort.Strings(sorted)

	patterns := svc.AllPatterns()
	for _, src := range sorted {
		for _, pat := range patterns {
			if pat.Matches(src) {
				return svc.SetTrigger(service.Trigger{Kind: kind, Source: src, Auto: isAutoMatch(svc, pat)})
			}
		}
	}
	return false
}

func isAutoMatch(svc *service.Service, pat deppattern.Pattern) bool {
	for _, d := range svc.Declared {
		if sameRaw(d, pat) {
			return false
		}
	}
	return true
}

func sameRaw(a, b deppattern.Pattern) bool {
	ha, ok1 := a.Hash()
	hb, ok2 := b.Hash()
	if ok1 && ok2 {
		return ha == hb
	}
	return a.Raw() == b.Raw()
}

func triggeredDirs(services []*service.Service) []string {
	var out []string
	for _, svc := range services {
		if svc.Trigger() != nil {
			out = append(out, svc.Dir.Canonical)
		}
	}
	return out
}

func matched(services []*service.Service) []*service.Service {
	var out []*service.Service
	for _, svc := range services {
		if svc.Trigger() != nil {
			out = append(out, svc)
		}
	}
	return out
}
