package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const questionSystemPrompt = "You are a senior technical interviewer. You only reply with JSON."

// BuildQuestionMessages creates the chat messages for generating one
// technical question per selected skill.
func (pb *PromptBuilder) BuildQuestionMessages(allSkills, selected []string) []Message {
	return []Message{
		{Role: "system", Content: questionSystemPrompt},
		{Role: "user", Content: pb.BuildQuestionPrompt(allSkills, selected)},
	}
}

func (pb *PromptBuilder) BuildQuestionPrompt(allSkills, selected []string) string {
	skillsList := allSkills
	if len(skillsList) > 10 {
		skillsList = skillsList[:10]
	}

	return fmt.Sprintf(`Generate exactly 3 technical interview questions to test deep knowledge of these skills: %s

CRITICAL REQUIREMENTS:
1. Questions must be TECHNICAL and test KNOWLEDGE, not experience stories
2. Question 1: Technical question about %s - test concepts, implementation, or problem-solving
3. Question 2: Technical question about %s - test understanding of core principles
4. Question 3: Technical question about %s - test advanced knowledge or best practices
5. DO NOT ask: "Where did you learn X?", "Where did you use X?", "How familiar are you with X?", "Tell me about your experience with X"
6. DO ask: "How does X work?", "What is the difference between X and Y?", "Explain the algorithm/architecture of X", "What are the key concepts in X?", "How would you implement X?"
7. Questions should require technical explanation, not personal stories
8. Format as a JSON array of exactly 3 strings
9. Return ONLY the JSON array, no additional text

Example good questions:
- "Explain how gradient descent works in machine learning and what are its limitations?"
- "What is the difference between REST and GraphQL APIs? When would you use each?"
- "How does React's virtual DOM improve performance compared to direct DOM manipulation?"

Example format: ["Technical question 1", "Technical question 2", "Technical question 3"]`,
		strings.Join(skillsList, ", "), selected[0], selected[1], selected[2])
}

// BuildCorrectnessPrompt creates the rubric prompt for one answer.
func (pb *PromptBuilder) BuildCorrectnessPrompt(question, answer string) string {
	return fmt.Sprintf(`You are a strict technical interviewer evaluating a candidate's answer to a technical question.

TECHNICAL QUESTION: %q

CANDIDATE'S ANSWER: %q

EVALUATION CRITERIA (be strict and accurate):
1. Does the answer directly address the question? (0-25 points)
   - If answer is completely off-topic or says "I don't know" → 0-10 points
   - If answer is partially relevant → 10-20 points
   - If answer directly addresses the question → 20-25 points

2. Technical accuracy and depth (0-50 points)
   - Completely wrong or no technical content → 0-15 points
   - Partially correct but shallow → 15-30 points
   - Mostly correct with some depth → 30-40 points
   - Accurate and demonstrates good understanding → 40-50 points

3. Clarity and completeness (0-25 points)
   - Unclear or incomplete → 0-10 points
   - Somewhat clear but missing details → 10-20 points
   - Clear and reasonably complete → 20-25 points

IMPORTANT:
- If the candidate says "I don't know", "No", or gives a very short non-answer → score should be LOW (0-30)
- If the answer is empty or off-topic → score should be LOW (0-30)
- If the answer is wrong or shows misunderstanding → score should be LOW (10-40)
- Only give high scores (70-100) for accurate, detailed, technically correct answers

Return ONLY a JSON object with this exact format:
{
  "score": <number between 0 and 100>,
  "reasoning": "<brief explanation of why this score was given>"
}

Do not include any other text or formatting.`, question, strings.TrimSpace(answer))
}
