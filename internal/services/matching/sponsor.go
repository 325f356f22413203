package matching

import (
	"fmt"

	"sponsorship-backend/internal/models"
)

// SponsorMatch is a resolved payer identity with the confidence of the rule
// that produced it.
type SponsorMatch struct {
	Sponsor    *models.Sponsor
	Confidence models.Confidence
	Note       string
}

// ResolveSponsor attaches a payer identity in strict precedence order,
// stopping at the first rule that succeeds:
//
//  1. variable-symbol exact match (high confidence)
//  2. bank-account exact match (high confidence)
//  3. full fuzzy name match (medium)
//  4. unique last-name match (low; two or more candidates yield no match,
//     leaving attribution to human review)
func (c *Context) ResolveSponsor(variableSymbol, senderAccount, senderName string) *SponsorMatch {
	if variableSymbol != "" {
		for i := range c.Sponsors {
			sp := &c.Sponsors[i]
			if sp.VariableSymbol != "" && sp.VariableSymbol == variableSymbol {
				return &SponsorMatch{
					Sponsor:    sp,
					Confidence: models.ConfidenceHigh,
					Note:       fmt.Sprintf("variable symbol %s matched sponsor %s %s", variableSymbol, sp.FirstName, sp.LastName),
				}
			}
		}
	}

	if senderAccount != "" {
		for i := range c.Sponsors {
			sp := &c.Sponsors[i]
			if sp.BankAccount != "" && sp.BankAccount == senderAccount {
				return &SponsorMatch{
					Sponsor:    sp,
					Confidence: models.ConfidenceHigh,
					Note:       fmt.Sprintf("bank account %s matched sponsor %s %s", senderAccount, sp.FirstName, sp.LastName),
				}
			}
		}
	}

	if senderName == "" {
		return nil
	}
	senderTokens := NameTokens(senderName)

	// Full-name match: every token of the sponsor's normalized name must
	// appear among the sender tokens, order-independent. Requiring two
	// tokens on both sides keeps single surnames out of this rule.
	if len(senderTokens) >= 2 {
		senderSet := make(map[string]struct{}, len(senderTokens))
		for _, t := range senderTokens {
			senderSet[t] = struct{}{}
		}
		for i := range c.Sponsors {
			sp := &c.Sponsors[i]
			spTokens := NameTokens(sp.FirstName + " " + sp.LastName)
			if len(spTokens) < 2 {
				continue
			}
			all := true
			for _, t := range spTokens {
				if _, ok := senderSet[t]; !ok {
					all = false
					break
				}
			}
			if all {
				return &SponsorMatch{
					Sponsor:    sp,
					Confidence: models.ConfidenceMedium,
					Note:       fmt.Sprintf("sender %q matched sponsor name %s %s", senderName, sp.FirstName, sp.LastName),
				}
			}
		}
	}

	// Last-name-only match, accepted only when exactly one sponsor's last
	// name occurs in the sender string. Ambiguity means no attribution.
	senderSet := make(map[string]struct{}, len(senderTokens))
	for _, t := range senderTokens {
		senderSet[t] = struct{}{}
	}
	var candidate *models.Sponsor
	candidates := 0
	for i := range c.Sponsors {
		last := NormalizeName(c.Sponsors[i].LastName)
		if last == "" {
			continue
		}
		if _, ok := senderSet[last]; ok {
			candidate = &c.Sponsors[i]
			candidates++
		}
	}
	if candidates == 1 {
		return &SponsorMatch{
			Sponsor:    candidate,
			Confidence: models.ConfidenceLow,
			Note:       fmt.Sprintf("sender %q matched last name of sponsor %s %s", senderName, candidate.FirstName, candidate.LastName),
		}
	}

	return nil
}
