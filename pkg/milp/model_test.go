package milp

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModel() *Model {
	m := NewModel("Fantasy_Cricket", Maximize)
	a := m.AddBinary("pick_a")
	b := m.AddBinary("pick_b")
	var obj, credits, total LinearExpr
	obj.Add(a, 2.5).Add(b, 4)
	credits.Add(a, 9).Add(b, 8.5)
	total.Add(a, 1).Add(b, 1)
	m.SetObjective("MaximizeROI", obj)
	m.AddConstraint("MaxCredits", credits, LessEq, 100)
	m.AddConstraint("TotalSelection", total, Equal, 1)
	return m
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Model)
		wantErr string
	}{
		{name: "valid", mutate: func(m *Model) {}},
		{
			name:    "duplicate constraint",
			mutate:  func(m *Model) { m.Constraints = append(m.Constraints, m.Constraints[0]) },
			wantErr: "duplicate constraint name",
		},
		{
			name: "foreign variable",
			mutate: func(m *Model) {
				m.Constraints[0].Expr.Add(Var{Index: 7, Name: "ghost"}, 1)
			},
			wantErr: "not part of the model",
		},
		{
			name:    "nan coefficient",
			mutate:  func(m *Model) { m.Objective.Expr.Terms[0].Coeff = math.NaN() },
			wantErr: "non-finite coefficient",
		},
		{
			name:    "infinite rhs",
			mutate:  func(m *Model) { m.Constraints[1].RHS = math.Inf(1) },
			wantErr: "non-finite right-hand side",
		},
		{
			name:    "duplicate variable",
			mutate:  func(m *Model) { m.AddBinary("pick_a") },
			wantErr: "duplicate variable name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sampleModel()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.Error(t, NewModel("empty", Maximize).Validate())
}

func TestWriteLP(t *testing.T) {
	m := sampleModel()
	m.Fix(Var{Index: 1, Name: "pick_b"})

	var buf bytes.Buffer
	require.NoError(t, WriteLP(&buf, m))

	want := strings.Join([]string{
		`\* Fantasy_Cricket *\`,
		"Maximize",
		"MaximizeROI: 2.5 pick_a + 4 pick_b",
		"Subject To",
		"MaxCredits: 9 pick_a + 8.5 pick_b <= 100",
		"TotalSelection: pick_a + pick_b = 1",
		"Bounds",
		" pick_b = 0",
		"Binaries",
		"pick_a",
		"pick_b",
		"End",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteLPNegativeAndEmpty(t *testing.T) {
	m := NewModel("signs", Minimize)
	a := m.AddBinary("a")
	var obj LinearExpr
	obj.Add(a, -3)
	m.SetObjective("Obj", obj)
	m.AddConstraint("Empty", LinearExpr{}, GreaterEq, 0)

	var buf bytes.Buffer
	require.NoError(t, WriteLP(&buf, m))
	out := buf.String()
	assert.Contains(t, out, "Minimize\nObj: - 3 a\n")
	assert.Contains(t, out, "Empty: 0 a >= 0\n")
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"Virat Kohli":     "Virat_Kohli",
		"  K.L. Rahul ":   "K_L_Rahul",
		"3rd-man":         "x_3rd_man",
		"Jasprít Bumrah":  "Jaspr_t_Bumrah",
		"***":             "x",
		"already_ok_name": "already_ok_name",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeName(in), in)
	}
}

func TestConstraintSatisfied(t *testing.T) {
	m := sampleModel()
	values := []float64{1, 0}
	for _, c := range m.Constraints {
		assert.True(t, c.Satisfied(values, 1e-9), c.Name)
	}
	assert.False(t, m.Constraints[1].Satisfied([]float64{1, 1}, 1e-9))
	assert.InDelta(t, 2.5, Evaluate(m.Objective.Expr, values), 1e-12)
}

func TestAddSkipsZeroCoefficients(t *testing.T) {
	var e LinearExpr
	e.Add(Var{Index: 0, Name: "a"}, 0).Add(Var{Index: 1, Name: "b"}, 2)
	assert.Len(t, e.Terms, 1)
}
