package planner

import (
	"fmt"
	"sort"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/logging"
)

// ResolveDependencies orders tasks so every dependency runs before its
// dependent, via Kahn's algorithm. Ties among tasks simultaneously
// ready to run break by ascending risk, then lexicographically by
// kind, so low-risk content edits run ahead of high-risk format
// changes when order is otherwise unconstrained. A dependency cycle
// can't be topologically ordered; its residue is appended to the
// result in encounter order with a warning, rather than dropped.
func ResolveDependencies(tasks []docmodel.Task) ([]docmodel.Task, []string) {
	log := logging.Get(logging.CategoryPlan)

	byID := make(map[string]docmodel.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	inDegree := make(map[string]int, len(tasks))
	for _, t := range tasks {
		inDegree[t.ID] = 0
	}
	for _, t := range tasks {
		for _, dep := range t.DependencyIDs {
			if _, ok := byID[dep]; ok {
				inDegree[t.ID]++
			}
		}
	}

	var ready []docmodel.Task
	for _, t := range tasks {
		if inDegree[t.ID] == 0 {
			ready = append(ready, t)
		}
	}

	var warnings []string
	var result []docmodel.Task
	placed := make(map[string]bool, len(tasks))

	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			if ready[i].Risk != ready[j].Risk {
				return ready[i].Risk.Less(ready[j].Risk)
			}
			return ready[i].Kind < ready[j].Kind
		})

		current := ready[0]
		ready = ready[1:]
		result = append(result, current)
		placed[current.ID] = true

		for _, t := range tasks {
			if placed[t.ID] {
				continue
			}
			for _, dep := range t.DependencyIDs {
				if dep == current.ID {
					inDegree[t.ID]--
				}
			}
			if inDegree[t.ID] == 0 && !inReady(ready, t.ID) {
				ready = append(ready, t)
			}
		}
	}

	if len(result) != len(tasks) {
		var residueIDs []string
		for _, t := range tasks {
			if !placed[t.ID] {
				result = append(result, t)
				residueIDs = append(residueIDs, t.ID)
			}
		}
		warning := fmt.Sprintf("dependency cycle detected, appended without ordering: %v", residueIDs)
		log.Warn(warning)
		warnings = append(warnings, warning)
	}

	return result, warnings
}

func inReady(ready []docmodel.Task, id string) bool {
	for _, t := range ready {
		if t.ID == id {
			return true
		}
	}
	return false
}
