package vertex

import (
	"strings"

	"github.com/unifymed/unifymed/constants"
)

// --- Template Filler Model Prompts ---

const fillerSystemPrompt = "You are a medical records assistant. You answer questions about a single patient record accurately and concisely, never inventing information that is not present in the record."

const fillerUserPromptTemplate = `You have the following patient record:

---PATIENT RECORD START---
%s
---PATIENT RECORD END---

Answer the following numbered questions using only the record above.

Questions:
%s

Respond with one line per question, in this exact format:
<question number>. <answer>

If the record does not contain the information for a question, answer exactly: Not available`

// --- Metric Extractor Model Prompts ---

const metricsSystemPrompt = "You are a medical data extraction tool. You extract numeric measurements and medication mentions from a patient record and output them as a valid JSON array."

var metricsUserPromptTemplate = `Analyze the following patient record:

---PATIENT RECORD START---
%s
---PATIENT RECORD END---

Extract every numeric medical measurement (lab values, vital signs) and every medication mention.

Output a single JSON array. Each element must be an object with these keys:
- "metric": the measurement or entry name (string)
- "value": the numeric value (number; use 0 for medications)
- "unit": the unit (string; use "medication" for medications)
- "date": the associated date if present (string, optional)
- "interpretation": the clinical interpretation if warranted, preferably one of: ` +
	strings.Join(constants.InterpretationStrings(), ", ") + ` (string, optional)
- "medication": the medication name (string; ONLY for medication entries)

Return ONLY the JSON array. Do not wrap it in markdown fences or add any text before or after it.`
