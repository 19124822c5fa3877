package dataprocessing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"strykerscli/pkg/contracts/domain"
)

// ClassifySection maps a section label to its seating category. Rules are
// evaluated in order: "Upper" prefix, "Lower" prefix with a letter lookup,
// any mention of "Pitchside", then Other. Matching is case-sensitive.
func ClassifySection(section string) domain.SeatingCategory {
	s := strings.TrimSpace(section)

	switch {
	case strings.HasPrefix(s, "Upper"):
		return domain.CategoryUpperGA
	case strings.HasPrefix(s, "Lower "):
		return lowerLevelCategory(strings.TrimSpace(strings.TrimPrefix(s, "Lower ")))
	case strings.HasPrefix(s, "Lower"):
		return domain.CategoryLowerGA
	case strings.Contains(s, "Pitchside"):
		return domain.CategoryPitchside
	default:
		return domain.CategoryOther
	}
}

// lowerLevelCategory looks up a lower-bowl section code: one capital letter,
// optionally followed by a row or seat number ("O", "P14"). Anything else
// is lower-bowl general admission.
func lowerLevelCategory(code string) domain.SeatingCategory {
	r, size := utf8.DecodeRuneInString(code)
	if size == 0 || !unicode.IsUpper(r) || strings.TrimLeftFunc(code[size:], unicode.IsDigit) != "" {
		return domain.CategoryLowerGA
	}

	switch r {
	case 'M', 'N', 'O', 'L', 'P':
		return domain.CategoryClub
	case 'A', 'B', 'C', 'D', 'E':
		return domain.CategoryPitchside
	default:
		// H J K G F Q R S T and anything unrecognised
		return domain.CategoryLowerGA
	}
}

// TimingBucketFor buckets days-before. Upper bounds are inclusive.
func TimingBucketFor(days int) domain.TimingBucket {
	switch {
	case days <= 0:
		return domain.TimingGameDay
	case days <= 3:
		return domain.Timing1To3Days
	case days <= 7:
		return domain.Timing4To7Days
	case days <= 14:
		return domain.Timing8To14Days
	case days <= 30:
		return domain.Timing15To30Days
	case days <= 60:
		return domain.Timing31To60Days
	default:
		return domain.Timing60PlusDays
	}
}

// ClassifyBuyer segments days-before under the given policy
func ClassifyBuyer(days int, policy domain.BuyerPolicy) domain.BuyerType {
	if policy == domain.PolicyReport {
		switch {
		case days >= 15:
			return domain.BuyerPlanner
		case days >= 3:
			return domain.BuyerInBetween
		default:
			return domain.BuyerLastMinute
		}
	}

	switch {
	case days <= 2:
		return domain.BuyerLastMinute
	case days > 14:
		return domain.BuyerPlanner
	default:
		return domain.BuyerInBetween
	}
}

// Reclassify returns a copy of sales with buyer types recomputed under policy
func Reclassify(sales []domain.Sale, policy domain.BuyerPolicy) []domain.Sale {
	out := make([]domain.Sale, len(sales))
	for i, s := range sales {
		s.Buyer = ClassifyBuyer(s.DaysBefore, policy)
		out[i] = s
	}
	return out
}
