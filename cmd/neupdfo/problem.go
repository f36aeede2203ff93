package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// objective describes a linear or quadratic objective f(x) = c + b.x +
// 0.5 x^T Q x (Quadratic omitted entirely for the purely linear family).
type objective struct {
	Constant  float64     `json:"constant"`
	Linear    []float64   `json:"linear"`
	Quadratic [][]float64 `json:"quadratic,omitempty"`
}

// constraintSpec describes one linear inequality row.Linear . x <= RHS,
// the one constraint family the CLI can load without compiling native
// code, per SPEC_FULL.md §6.3.
type constraintSpec struct {
	Linear []float64 `json:"linear"`
	RHS    float64   `json:"rhs"`
}

// problemFile is the on-disk JSON shape cmd/neupdfo reads.
type problemFile struct {
	N           int              `json:"n"`
	X0          []float64        `json:"x0"`
	Objective   objective        `json:"objective"`
	Constraints []constraintSpec `json:"constraints,omitempty"`
}

func loadProblem(path string) (*problemFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading problem file: %w", err)
	}
	var p problemFile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing problem file: %w", err)
	}
	if p.N <= 0 {
		return nil, fmt.Errorf("problem file: n must be positive")
	}
	if len(p.X0) != p.N {
		return nil, fmt.Errorf("problem file: x0 must have length n")
	}
	if len(p.Objective.Linear) != p.N {
		return nil, fmt.Errorf("problem file: objective.linear must have length n")
	}
	for i, c := range p.Constraints {
		if len(c.Linear) != p.N {
			return nil, fmt.Errorf("problem file: constraints[%d].linear must have length n", i)
		}
	}
	return &p, nil
}

// calcfc builds the callback cobyla.Solve drives, evaluating the
// objective and every constraint's residual RHS - Linear.x (positive
// when feasible, matching spec.md §2's sign convention).
func (p *problemFile) calcfc() func(x, constr []float64) float64 {
	return func(x, constr []float64) float64 {
		f := p.Objective.Constant
		for i, b := range p.Objective.Linear {
			f += b * x[i]
		}
		for i, row := range p.Objective.Quadratic {
			acc := 0.0
			for j, q := range row {
				acc += q * x[j]
			}
			f += 0.5 * acc * x[i]
		}
		for k, c := range p.Constraints {
			dot := 0.0
			for i, a := range c.Linear {
				dot += a * x[i]
			}
			constr[k] = c.RHS - dot
		}
		return f
	}
}
