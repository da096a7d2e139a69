package llm

import (
	"encoding/base64"
	"fmt"

	"github.com/dtroode/evalca-server/internal/model"
)

func detectPrompt(text string) string {
	return fmt.Sprintf(`You are an information extraction assistant.

Read the input text and:
- Extract the exact text span that represents the question
- Extract the exact text span that represents the answer

Rules:
- Do NOT rewrite, rephrase, summarize, or infer
- Return text exactly as it appears in the input
- Only extract contiguous text spans
- If multiple questions or answers exist, extract the primary one
- If a part is missing, return an empty string ""

Output format (JSON only):
{"question": "", "answer": ""}

Example input:
What is Python?
Python is a high-level programming language.

Example output:
{"question": "What is Python?", "answer": "Python is a high-level programming language."}

Example input:
This document explains neural networks and their applications.

Example output:
{"question": "", "answer": ""}

### Input Text
%s
`, text)
}

func evaluationPrompt(question, answer string) string {
	return fmt.Sprintf(`You are a senior ICMAI-certified examiner evaluating a Chartered Accountancy answer.

Evaluate the student's answer strictly based on ICMAI/ICAI examination standards.

### Evaluation Guidelines
- Focus on conceptual correctness
- Credit relevant points even if language is imperfect
- Do not assume missing facts
- Step-wise and point-wise answers score higher
- Give partial marks where applicable
- Penalize irrelevance and incorrect concepts
- Professional presentation matters (clarity, structure)

### Question
%s

### Student Answer
%s

### Evaluation Criteria
1. Conceptual Accuracy
2. Coverage of Key Points
3. Logical Structure & Presentation
4. Relevance to the Question
5. Professional Language (not grammar perfection)

### Output Format (STRICT JSON ONLY)
{
  "total_marks": %d,
  "marks_awarded": "<number between 0 and %d>",
  "verdict": "<Excellent | Good | Average | Poor | Incorrect>",
  "conceptual_accuracy": "<brief evaluation>",
  "key_points_covered": "<list or short description>",
  "missing_or_incorrect_points": "<what is missing or wrong>",
  "presentation_feedback": "<structure, clarity, step-wise comments>",
  "examiner_remarks": "<ICMAI-style concise remark>"
}
`, question, answer, model.DefaultTotalMarks, model.DefaultTotalMarks)
}

const extractionPrompt = `Transcribe all text in this image exactly as written, preserving line breaks.
Do not translate, summarize or correct it.

Output format (JSON only):
{"text": "<transcribed text>", "confidence": <number between 0 and 1>}`

func dataURL(image model.Image) string {
	return fmt.Sprintf("data:%s;base64,%s", image.ContentType, base64.StdEncoding.EncodeToString(image.Data))
}
