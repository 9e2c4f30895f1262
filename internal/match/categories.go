package match

import "github.com/minjpark/litscreen/internal/model"

// The canonical screening keyword lists. These mirror the review
// protocol's search template and define the rule-stage ground truth;
// list order is the output order of matched terms.

// DepressionRules returns the depression category rules.
func DepressionRules() []Rule {
	return []Rule{
		LiteralRule("depression"),
		LiteralRule("depressive symptoms"),
		LiteralRule("depressive disorder"),
	}
}

// MobileRules returns the mobile/digital category rules.
func MobileRules() []Rule {
	return []Rule{
		LiteralRule("mobile application"),
		LiteralRule("smartphone application"),
		LiteralRule("mobile"),
		LiteralRule("smartphone"),
		LiteralRule("iphone"),
		LiteralRule("android"),
		LiteralRule("app"),
		LiteralRule("digital"),
		LiteralRule("digital therapeutic"),
		LiteralRule("digital therapeutics"),
		LiteralRule("mhealth"),
	}
}

// BehavioralRules returns the behavioral activation/therapy rules: two
// fixed literal phrases plus three wildcard templates.
func BehavioralRules() []Rule {
	return []Rule{
		LiteralRule("behavioral activation"),
		LiteralRule("behavioural activation"),
		WildcardRule("activity schedul*"),
		WildcardRule("behavio* interven*"),
		WildcardRule("behavio* therap*"),
	}
}

// RulesFor returns the rule list owned by a category.
func RulesFor(cat model.Category) []Rule {
	switch cat {
	case model.CategoryDepression:
		return DepressionRules()
	case model.CategoryMobile:
		return MobileRules()
	case model.CategoryBehavioral:
		return BehavioralRules()
	}
	return nil
}

// Options returns the selectable keyword strings the review interface
// offers for a category. Wildcard templates appear as their template
// text and expand during highlighting.
func Options(cat model.Category) []string {
	rules := RulesFor(cat)
	opts := make([]string, 0, len(rules))
	for _, r := range rules {
		opts = append(opts, r.Text)
	}
	return opts
}

// CanonicalKeyword is the single keyword per category stamped by the
// reviewer's force-include shortcut.
func CanonicalKeyword(cat model.Category) string {
	switch cat {
	case model.CategoryDepression:
		return "depression"
	case model.CategoryMobile:
		return "mobile"
	case model.CategoryBehavioral:
		return "behavioral activation"
	}
	return ""
}
