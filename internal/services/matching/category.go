package matching

import (
	"fmt"
	"strings"

	"sponsorship-backend/internal/models"
)

// keywordGroup maps message keywords to a payment-type name. The name is
// re-resolved against the active reference table at match time, so this table
// stays decoupled from payment-type ids. Keywords are listed with and without
// diacritics because statements arrive both ways.
type keywordGroup struct {
	Category string
	Keywords []string
}

// Groups are tested in order; the first group with any substring hit wins and
// only one category is ever assigned.
var keywordGroups = []keywordGroup{
	{"Tuition", []string{"skolne", "školné", "school fee", "tuition", "školkovné"}},
	{"Vouchers", []string{"stravenk", "voucher", "meal", "obed", "oběd", "jidelna", "jídelna"}},
	{"Clinic", []string{"klinika", "clinic", "lekar", "lékař", "doktor", "medical", "zdravot"}},
	{"Coffee", []string{"kava", "káva", "coffee", "kavarna", "kavárna"}},
	{"Dance club", []string{"tanec", "dance", "tanecni", "taneční", "krouzek", "kroužek"}},
	{"Seminar", []string{"seminar", "seminář", "teen klub", "teenklub"}},
}

// ClassifyCategory scans the lowercased message for the first keyword group
// with a hit. A group whose configured name no longer exists among active
// payment types yields no category at all.
func (c *Context) ClassifyCategory(message string) (*models.PaymentType, string) {
	if message == "" {
		return nil, ""
	}
	msg := strings.ToLower(message)
	for _, g := range keywordGroups {
		for _, kw := range g.Keywords {
			if strings.Contains(msg, kw) {
				pt := c.PaymentTypeByName(g.Category)
				if pt == nil {
					return nil, ""
				}
				return pt, fmt.Sprintf("keyword %q classified payment as %s", kw, pt.Name)
			}
		}
	}
	return nil, ""
}
