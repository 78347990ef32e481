// Package student contains the domain model of a registered student.
//
// The package defines:
//
//   - Student, the client-side record, with derived FullName and Age
//   - the 14 grade levels and their badge colors
//   - API, the port through which records reach the remote resource
//
// # Student
//
// All attributes are strings, exactly as they travel over the wire. A record
// built locally has an empty ID until the server assigns one:
//
//	s := student.Student{FirstName: "Asha", LastName: "Rao", Grade: student.Grade3}
//	s.FullName()          // "Asha Rao"
//	s.AgeAt(time.Now())   // 0 until DateOfBirth is set
//
// The register and edit forms live in application/command; validation is a
// form concern only and the store forwards whatever it is given.
package student
