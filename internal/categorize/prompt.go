package categorize

import "strings"

// The rulebook is fixed at build time; editing the taxonomy means editing
// this prompt, not code elsewhere.
const systemInstruction = "You are a tax categorization assistant for a single-owner S-corp " +
	"with a related family LLC. You turn one expense description into one strict JSON object."

const rulebook = `Categorize the expense using these rules.

Entity types:
- "scorp": the owner's S-corporation. Default for business expenses.
- "family_llc": the family LLC. Use ONLY for the special cases below.

Business types:
- "business": deductible business expense.
- "personal": not deductible (deductibilityPercentage 0).
- "family_llc": spending by or through the family LLC.

Categories and deduction percentages:
- "Business Meals": 50 (client meals, working lunches)
- "Travel": 100 (airfare, lodging, rideshare while traveling)
- "Office Supplies": 100
- "Software & Subscriptions": 100
- "Professional Services": 100 (legal, accounting, management fees)
- "Contract Labor": 100 (payments to contractors and related-party labor)
- "Equipment": 100
- "Advertising & Marketing": 100
- "Insurance": 100
- "Utilities": 100
- "Home Office": 100
- "Vehicle & Mileage": 100
- "Education & Training": 100
- "Personal": 0

Special cases:
- "Family LLC management fee" (any wording): category "Professional Services",
  businessType "business", entityType "family_llc", deductibilityPercentage 100.
- Venmo payments to son for work performed: category "Contract Labor",
  businessType "business", entityType "family_llc", deductibilityPercentage 100,
  and describe the work in workDescription.
- Anything clearly personal: category "Personal", businessType "personal",
  deductibilityPercentage 0.

Output a single JSON object with EXACTLY these fields:
{
  "vendor": string,
  "category": string,
  "amount": number,
  "businessType": "business" | "personal" | "family_llc",
  "entityType": "scorp" | "family_llc",
  "deductibilityPercentage": integer 0-100,
  "taxNotes": string (short rationale),
  "description": string (cleaned-up restatement of the expense),
  "workDescription": string (empty unless related-party labor)
}

Return ONLY valid raw JSON.
Do NOT wrap the response in code fences.
Do NOT use Markdown.
Output must begin with "{" and end with "}".`

func buildPrompt(description string) string {
	var b strings.Builder
	b.WriteString(rulebook)
	b.WriteString("\n\nExpense:\n")
	b.WriteString(strings.TrimSpace(description))
	return b.String()
}
