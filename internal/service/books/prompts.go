package books

import "fmt"

// Generation parameters per call kind. Lookup needs determinism, QA can
// breathe a little.
const (
	infoTemperature   = 0.3
	infoMaxTokens     = 4000
	answerTemperature = 0.5
	answerMaxTokens   = 2000
	reportTemperature = 0.4
	reportMaxTokens   = 4000
)

func buildBookInfoPrompt(bookName string) string {
	return fmt.Sprintf(`You are a professional book information assistant. Given the book name below, research and compile the complete details of that book.

Return the result as JSON with the following fields:
- title: the full, exact book title
- author: all authors, comma separated
- publisher: the publisher's name
- year: year of first publication
- isbn: the 13-digit ISBN, or null if unknown
- description: a detailed introduction of the book (200-300 words)
- summary: an overview of the book's main content and themes (300-500 words)
- genre: the genre or category (e.g. science fiction, novel, history)
- pages: total page count
- language: the book's original language
- rating: rating from 0 to 5, if available
- awards: notable awards the book has received
- is_found: boolean, whether the book was successfully identified
- not_found_reason: if the book was not found, explain why (e.g. the book does not exist, the name is ambiguous)

Book name: %s

Requirements:
1. Always include the is_found field, whether or not the book was found.
2. If is_found is false, not_found_reason must explain why; other fields may be null.
3. Make the information complete and accurate, especially description and summary.
4. Set any field you genuinely cannot determine to null.
5. The output must be strictly valid JSON with no surrounding text.
6. The year field must be a string.`, bookName)
}

func buildQAPrompt(bookName, question string) string {
	return fmt.Sprintf(`You are a professional reading assistant who answers questions about books.

Book name: %s
Question: %s

Answer the question accurately and in detail based on the book's content. If you lack the information, say so.
Keep the answer clear and well structured.

Important: write the entire reply as plain text. Do not use any Markdown syntax (no #, *, -, > or code blocks). Use natural paragraph breaks.`, bookName, question)
}

func buildQAPromptWithContext(bookName, question, context string) string {
	contextSection := ""
	if context != "" {
		contextSection = fmt.Sprintf("\nConversation history:\n%s\n\n", context)
	}

	return fmt.Sprintf(`You are a professional reading assistant who answers questions about books.
%sBook name: %s
Question: %s

Answer the question accurately and in detail based on the book's content. Take the conversation history into account and stay consistent with it.
If you lack the information, say so. Keep the answer clear and well structured.

Important: write the entire reply as plain text. Do not use any Markdown syntax (no #, *, -, > or code blocks). Use natural paragraph breaks.`, contextSection, bookName, question)
}

func buildReportPrompt(bookName, author string) string {
	byline := ""
	if author != "" {
		byline = fmt.Sprintf(" by %s", author)
	}

	return fmt.Sprintf(`You are a literary analyst. Write a detailed report on the book "%s"%s.

Cover, in order: publication background, plot overview, major themes, critical reception, and the book's influence. Write several paragraphs of plain text without any Markdown formatting.`, bookName, byline)
}
