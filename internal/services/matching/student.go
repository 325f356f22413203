package matching

import (
	"fmt"
	"strings"

	"sponsorship-backend/internal/models"
)

// StudentResolution carries the resolved student, if any, plus a rationale
// note. Note may be set with a nil Student: a sponsor with several active
// sponsorships produces an ambiguity note and defers to manual selection.
type StudentResolution struct {
	Student    *models.Student
	Note       string
	ViaMessage bool
}

// ResolveStudent infers the target student. A matched sponsor with exactly one
// active sponsorship decides it outright; with two or more the resolver
// records the ambiguity and does not guess. Failing that, the free-text
// message is scanned for a student name.
func (c *Context) ResolveStudent(sponsor *models.Sponsor, message string) StudentResolution {
	var res StudentResolution

	if sponsor != nil {
		switch len(sponsor.Sponsorships) {
		case 0:
			// nothing to infer from
		case 1:
			if st := c.studentByID(sponsor.Sponsorships[0].StudentID); st != nil {
				res.Student = st
				res.Note = fmt.Sprintf("single active sponsorship assigns student %s %s", st.FirstName, st.LastName)
			}
		default:
			res.Note = fmt.Sprintf("sponsor has %d active sponsorships, student requires manual selection", len(sponsor.Sponsorships))
		}
	}

	if res.Student == nil && message != "" {
		msg := NormalizeName(message)
		for i := range c.Students {
			st := &c.Students[i]
			first := NormalizeName(st.FirstName)
			last := NormalizeName(st.LastName)

			separate := len(first) >= 3 && len(last) >= 3 &&
				strings.Contains(msg, first) && strings.Contains(msg, last)
			full := first + " " + last
			contiguous := len(full) >= 5 && strings.Contains(msg, full)

			if separate || contiguous {
				res.Student = st
				res.ViaMessage = true
				note := fmt.Sprintf("message mentions student %s %s", st.FirstName, st.LastName)
				if res.Note != "" {
					res.Note += "; " + note
				} else {
					res.Note = note
				}
				break
			}
		}
	}

	return res
}
