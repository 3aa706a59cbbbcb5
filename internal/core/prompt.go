package core

import (
	"encoding/json"
	"fmt"

	"github.com/mikey/llm-outreach/internal/utils"
)

// DefaultTone is used when a request does not name one
const DefaultTone = "Friendly"

// systemPrompt never interpolates request data.
const systemPrompt = `You are a world-class B2C copywriter trained in Apollo.io's high-conversion email framework. Write short, crystal-clear, and highly converting outreach emails targeted at busy customers. You are writing on behalf of The Policy Boss, a company specializing in Life insurance, Tax Preparation, Credit Repair, and Business Startup services for Women.

Conversion rules (must follow):
1. Subject: 4-6 words, mobile-friendly, curiosity-driven, and directly relevant to the prospect's pain or goal.
2. Clarity: Target a 5th-grade reading level. Use simple language, minimal adverbs, and sentences < 15 words.
3. Structure: Hook (personalization) -> Specific pain -> Clear value proposition -> Single low-friction CTA.
4. Engagement: Personalize to the lead's name, title, and company. Mention 'The Policy Boss' naturally in the email body where appropriate. Add short social proof relevant to the business specialization if possible.
5. Length: 70-100 words total in the body. Keep 3-4 short paragraphs (1-2 lines each).
6. Output: a single strict JSON object with exactly the keys subject, body, cta_text. No markdown code fences, no surrounding prose, no extra keys or commentary.

Important: Use the business specialization (provided by the user) to tailor the message, and naturally incorporate The Policy Boss as the company name.`

// userPromptFormat takes the indented lead JSON and the tone. Variant count and
// temperature never appear in the prompt.
const userPromptFormat = `Lead details:
%s

Company: The Policy Boss
Tone: %s

Task:
Write **one** personalized outreach email tailored to the lead and the business specialization above.
- Write the email on behalf of The Policy Boss (include the company name naturally in the email body).
- Make the subject 4-6 words and directly relevant to the lead's role or business specialization.
- Body must be 70-100 words, 3-4 short paragraphs, sentences under 15 words, and at a 5th-grade reading level.
- Include a one-line social proof if available or a short, believable benchmark (e.g., "Clients cut churn 20-30%%").
- Make the text visually good looking using HTML tags (bold, italic, line breaks).
- End with a single clear, low-friction CTA that matches the CTA field.

IMPORTANT INSTRUCTIONS FOR THE RESPONSE FORMAT:
1) RETURN ONLY a single JSON object that is directly parsable by standard JSON parsers.
2) The JSON MUST start with '{' and end with '}' and contain the exact keys described below.
3) Do NOT include any surrounding explanatory text, headings, or bullet points.
4) Do NOT wrap the JSON in markdown/code fences (` + "```" + `) or add language tags like ` + "```json" + `. Return the raw JSON only.
5) If a value contains newlines, keep them inside the JSON string values only.

Provide your response in the following JSON format:
{
    "subject": "the subject line of the email",
    "body": "the HTML body of the email",
    "cta_text": "a clear call to action"
}
`

// BuildPrompt renders the system and user messages for one email. It is a pure
// function: equal inputs always produce byte-identical messages.
func BuildPrompt(lead Lead, tone string) []Message {
	lead = normalizeLead(lead)
	tone = utils.NormalizeText(tone)
	if tone == "" {
		tone = DefaultTone
	}

	// Marshalling a struct of strings cannot fail.
	leadJSON, _ := json.MarshalIndent(lead, "", "  ")

	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(userPromptFormat, leadJSON, tone)},
	}
}

func normalizeLead(lead Lead) Lead {
	out := Lead{
		FirstName:              utils.NormalizeText(lead.FirstName),
		LastName:               utils.NormalizeText(lead.LastName),
		Company:                utils.NormalizeText(lead.Company),
		Title:                  utils.NormalizeText(lead.Title),
		Zip:                    utils.NormalizeText(lead.Zip),
		Insight:                utils.NormalizeText(lead.Insight),
		BusinessSpecialization: utils.NormalizeText(lead.BusinessSpecialization),
	}
	if out.BusinessSpecialization == "" {
		out.BusinessSpecialization = DefaultBusinessSpecialization
	}
	return out
}
