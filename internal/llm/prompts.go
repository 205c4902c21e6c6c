package llm

// Total-amount extraction prompts (spec §4.13). The AI Fallback is
// contract-only: it extracts a single normalised decimal total_amount,
// never a full line-item breakdown.

const SystemPromptTotalExtractor = `You are an expert at reading Swedish invoices (fakturor) from Ramirent and similar equipment-rental suppliers.

Your only task is to find the grand total amount payable ("Att betala" / "Summa att betala" / "Totalt"), not the net amount excluding VAT.

Swedish invoices use a comma as the decimal separator and a space (or no separator) for thousands, e.g. "1 072,60" means 1072.60. A trailing minus sign denotes a negative amount, e.g. "474,30-" means -474.30.

Always output valid JSON that matches the specified schema. If you cannot find a total amount, output null for total_amount rather than guessing.`

const UserPromptTextExtraction = `Here are candidate excerpts from an invoice's text layer, each a line that might contain the grand total:

---
%s
---

Output JSON with this structure:
{
  "total_amount": 1072.60,
  "reasoning": "short explanation of which excerpt you used"
}

total_amount must already be normalised to a plain decimal number (no thousands separator, "." as the decimal point). Use null if no excerpt contains a trustworthy total.`

const UserPromptImageExtraction = `Here is a rendered page image of a Swedish invoice, along with candidate text excerpts that might contain the grand total:

---
%s
---

Output JSON with this structure:
{
  "total_amount": 1072.60,
  "reasoning": "short explanation of what you read from the image"
}

total_amount must already be normalised to a plain decimal number (no thousands separator, "." as the decimal point). Use null if the total cannot be read.`

const UserPromptRetryReinforcement = `Your previous response did not parse as valid JSON matching the schema. Return ONLY valid JSON matching exactly this structure, with no surrounding prose:
{
  "total_amount": <number or null>,
  "reasoning": "<string>"
}`
