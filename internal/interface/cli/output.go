package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/acharya/acharya/internal/domain/student"
)

// Format selects how results are written to stdout.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q: use table, json or yaml", s)
	}
}

// studentView is a student as printed by the CLI.
type studentView struct {
	ID                string `json:"id" yaml:"id"`
	FirstName         string `json:"firstName" yaml:"firstName"`
	LastName          string `json:"lastName" yaml:"lastName"`
	Email             string `json:"email" yaml:"email"`
	DateOfBirth       string `json:"dateOfBirth" yaml:"dateOfBirth"`
	Age               int    `json:"age" yaml:"age"`
	PhoneNumber       string `json:"phoneNumber" yaml:"phoneNumber"`
	Address           string `json:"address" yaml:"address"`
	City              string `json:"city" yaml:"city"`
	State             string `json:"state" yaml:"state"`
	ZipCode           string `json:"zipCode" yaml:"zipCode"`
	Grade             string `json:"grade" yaml:"grade"`
	GradeColor        string `json:"gradeColor" yaml:"gradeColor"`
	SchoolName        string `json:"schoolName" yaml:"schoolName"`
	ParentName        string `json:"parentName" yaml:"parentName"`
	ParentPhone       string `json:"parentPhone" yaml:"parentPhone"`
	ParentEmail       string `json:"parentEmail" yaml:"parentEmail"`
	EmergencyContact  string `json:"emergencyContact" yaml:"emergencyContact"`
	EmergencyPhone    string `json:"emergencyPhone" yaml:"emergencyPhone"`
	MedicalConditions string `json:"medicalConditions,omitempty" yaml:"medicalConditions,omitempty"`
	Allergies         string `json:"allergies,omitempty" yaml:"allergies,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

func viewOf(s student.Student) studentView {
	return studentView{
		ID:                s.ID,
		FirstName:         s.FirstName,
		LastName:          s.LastName,
		Email:             s.Email,
		DateOfBirth:       s.DateOfBirth,
		Age:               s.Age(),
		PhoneNumber:       s.PhoneNumber,
		Address:           s.Address,
		City:              s.City,
		State:             s.State,
		ZipCode:           s.ZipCode,
		Grade:             s.Grade,
		GradeColor:        student.GradeColor(s.Grade),
		SchoolName:        s.SchoolName,
		ParentName:        s.ParentName,
		ParentPhone:       s.ParentPhone,
		ParentEmail:       s.ParentEmail,
		EmergencyContact:  s.EmergencyContact,
		EmergencyPhone:    s.EmergencyPhone,
		MedicalConditions: s.MedicalConditions,
		Allergies:         s.Allergies,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// Printer writes results in the selected format.
//
// In json and yaml mode only the encoded data reaches the writer; messages
// meant for people are dropped so the output stays machine-readable.
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter creates a printer.
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{out: out, format: format}
}

// Students prints a list of students.
func (p *Printer) Students(list []student.Student) error {
	views := make([]studentView, 0, len(list))
	for _, s := range list {
		views = append(views, viewOf(s))
	}
	if p.format != FormatTable {
		return p.encode(views)
	}

	if len(views) == 0 {
		_, err := fmt.Fprintln(p.out, "No students found.")
		return err
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tGRADE\tAGE\tSCHOOL\tEMAIL")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID,
			strings.TrimSpace(v.FirstName+" "+v.LastName),
			badge(v.Grade, v.GradeColor),
			ageText(v),
			v.SchoolName,
			v.Email,
		)
	}
	return w.Flush()
}

// Student prints a single student.
func (p *Printer) Student(s student.Student) error {
	v := viewOf(s)
	if p.format != FormatTable {
		return p.encode(v)
	}

	age := ""
	if v.DateOfBirth != "" {
		age = strconv.Itoa(v.Age)
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"ID", v.ID},
		{"Name", s.FullName()},
		{"Email", v.Email},
		{"Date of birth", v.DateOfBirth},
		{"Age", age},
		{"Phone", v.PhoneNumber},
		{"Address", joinNonEmpty(", ", v.Address, v.City, strings.TrimSpace(v.State+" "+v.ZipCode))},
		{"Grade", badge(v.Grade, v.GradeColor)},
		{"School", v.SchoolName},
		{"Parent", joinNonEmpty(" / ", v.ParentName, v.ParentPhone, v.ParentEmail)},
		{"Emergency", joinNonEmpty(" / ", v.EmergencyContact, v.EmergencyPhone)},
		{"Medical", v.MedicalConditions},
		{"Allergies", v.Allergies},
		{"Created", v.CreatedAt},
		{"Updated", v.UpdatedAt},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s:\t%s\n", r[0], r[1])
	}
	return w.Flush()
}

// Grades prints the grade levels with their color tags.
func (p *Printer) Grades(grades []string) error {
	type gradeView struct {
		Grade string `json:"grade" yaml:"grade"`
		Color string `json:"color" yaml:"color"`
	}
	views := make([]gradeView, 0, len(grades))
	for _, g := range grades {
		views = append(views, gradeView{Grade: g, Color: student.GradeColor(g)})
	}
	if p.format != FormatTable {
		return p.encode(views)
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRADE\tCOLOR")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\n", v.Grade, v.Color)
	}
	return w.Flush()
}

// Message prints a line for people. It is silent in json and yaml mode.
func (p *Printer) Message(format string, args ...any) {
	if p.format != FormatTable {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) encode(v any) error {
	switch p.format {
	case FormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func badge(grade, color string) string {
	if grade == "" {
		return "-"
	}
	return grade + " [" + color + "]"
}

func ageText(v studentView) string {
	if v.DateOfBirth == "" {
		return "-"
	}
	return strconv.Itoa(v.Age)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
