package student

// ══════════════════════════════════════════════════════════════════════════════
// GRADES
// ══════════════════════════════════════════════════════════════════════════════

// Grade levels a student can be registered in, youngest first.
const (
	GradePreK         = "Pre-K"
	GradeKindergarten = "Kindergarten"
	Grade1            = "1st Grade"
	Grade2            = "2nd Grade"
	Grade3            = "3rd Grade"
	Grade4            = "4th Grade"
	Grade5            = "5th Grade"
	Grade6            = "6th Grade"
	Grade7            = "7th Grade"
	Grade8            = "8th Grade"
	Grade9            = "9th Grade"
	Grade10           = "10th Grade"
	Grade11           = "11th Grade"
	Grade12           = "12th Grade"
)

var grades = [...]string{
	GradePreK, GradeKindergarten,
	Grade1, Grade2, Grade3, Grade4, Grade5, Grade6,
	Grade7, Grade8, Grade9, Grade10, Grade11, Grade12,
}

// Grades returns the 14 grade levels in order. The slice is a fresh copy.
func Grades() []string {
	out := make([]string, len(grades))
	copy(out, grades[:])
	return out
}

// IsValidGrade reports whether g is one of the known grade levels.
func IsValidGrade(g string) bool {
	for _, known := range grades {
		if g == known {
			return true
		}
	}
	return false
}

// Semantic color tags used when rendering a grade badge.
const (
	ColorPrimary   = "primary"
	ColorSuccess   = "success"
	ColorInfo      = "info"
	ColorWarning   = "warning"
	ColorDanger    = "danger"
	ColorSecondary = "secondary"
)

var gradeColors = map[string]string{
	GradePreK:         ColorPrimary,
	GradeKindergarten: ColorSuccess,
	Grade1:            ColorInfo,
	Grade2:            ColorWarning,
	Grade3:            ColorDanger,
	Grade4:            ColorPrimary,
	Grade5:            ColorSuccess,
	Grade6:            ColorInfo,
	Grade7:            ColorWarning,
	Grade8:            ColorDanger,
	Grade9:            ColorPrimary,
	Grade10:           ColorSuccess,
	Grade11:           ColorInfo,
	Grade12:           ColorWarning,
}

// GradeColor returns the color tag for a grade, ColorSecondary when unknown.
func GradeColor(grade string) string {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return ColorSecondary
}
