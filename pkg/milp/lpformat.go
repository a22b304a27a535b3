package milp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

const termsPerLine = 8

// WriteLP serializes the model in CPLEX LP text.
func WriteLP(w io.Writer, m *Model) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("cannot write invalid model: %w", err)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\\* %s *\\\n", m.Name)
	fmt.Fprintf(bw, "%s\n", m.Sense)
	fmt.Fprintf(bw, "%s:%s\n", m.Objective.Name, formatExpr(m, m.Objective.Expr))

	fmt.Fprintf(bw, "Subject To\n")
	for _, c := range m.Constraints {
		fmt.Fprintf(bw, "%s:%s %s %s\n", c.Name, formatExpr(m, c.Expr), c.Op, formatNumber(c.RHS))
	}

	var fixed []string
	for _, v := range m.Vars {
		if v.Upper == 0 {
			fixed = append(fixed, v.Name)
		}
	}
	if len(fixed) > 0 {
		fmt.Fprintf(bw, "Bounds\n")
		for _, name := range fixed {
			fmt.Fprintf(bw, " %s = 0\n", name)
		}
	}

	fmt.Fprintf(bw, "Binaries\n")
	for _, v := range m.Vars {
		fmt.Fprintf(bw, "%s\n", v.Name)
	}
	fmt.Fprintf(bw, "End\n")
	return bw.Flush()
}

func formatExpr(m *Model, expr LinearExpr) string {
	if len(expr.Terms) == 0 {
		// LP text has no empty rows; anchor on the first variable.
		return " 0 " + m.Vars[0].Name
	}
	var b strings.Builder
	for i, t := range expr.Terms {
		if i > 0 && i%termsPerLine == 0 {
			b.WriteString("\n")
		}
		coeff := t.Coeff
		switch {
		case coeff < 0:
			b.WriteString(" - ")
			coeff = -coeff
		case i > 0:
			b.WriteString(" + ")
		default:
			b.WriteString(" ")
		}
		if coeff != 1 {
			b.WriteString(formatNumber(coeff))
			b.WriteString(" ")
		}
		b.WriteString(t.Var.Name)
	}
	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

// SanitizeName turns an arbitrary label into an identifier accepted by LP
// readers: letters, digits and underscores, never starting with a digit.
func SanitizeName(label string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(label) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "x"
	}
	if unicode.IsDigit(rune(name[0])) {
		name = "x_" + name
	}
	return name
}
