package runio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dcvnfopt/internal/solution"
)

// ObjsFileName builds the "<num_services>_<evaluations>.objs" file name
// spec.md §6 specifies for a (topology, scale, problem-index, algorithm)
// result set.
func ObjsFileName(numServices, evaluations int) string {
	return fmt.Sprintf("%d_%d.objs", numServices, evaluations)
}

// WriteObjs writes one line per individual in population to path: either
// "o1,o2,o3" for a feasible individual, or the literal "Infeasible".
func WriteObjs[X any](path string, population []solution.Solution[X]) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("runio: creating results folder for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("runio: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, sol := range population {
		if sol.Objectives.Tag != solution.Feasible {
			if _, err := fmt.Fprintln(w, "Infeasible"); err != nil {
				return fmt.Errorf("runio: writing %s: %w", path, err)
			}
			continue
		}

		for i, v := range sol.Objectives.Values {
			if i > 0 {
				if _, err := w.WriteString(","); err != nil {
					return fmt.Errorf("runio: writing %s: %w", path, err)
				}
			}
			if _, err := fmt.Fprintf(w, "%g", v); err != nil {
				return fmt.Errorf("runio: writing %s: %w", path, err)
			}
		}
		if _, err := w.WriteString("\n"); err != nil {
			return fmt.Errorf("runio: writing %s: %w", path, err)
		}
	}

	return w.Flush()
}

// WriteRunningTime writes a run's wall-clock duration, in seconds, to
// "running_time.out" under dir.
func WriteRunningTime(dir string, elapsed time.Duration) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("runio: creating results folder %s: %w", dir, err)
	}

	path := filepath.Join(dir, "running_time.out")
	content := fmt.Sprintf("%f\n", elapsed.Seconds())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("runio: writing %s: %w", path, err)
	}
	return nil
}
