package summarizer

// Prompt templates per format. %s receives the content.
var promptTemplates = map[Format]string{
	FormatBullets: `
Please summarize the following content into clear, concise bullet points. 
Focus on the main ideas and key takeaways. Use bullet points (•) format.

Content:
%s

Summary in bullet points:
`,
	FormatParagraphs: `
Please summarize the following content into well-structured paragraphs. 
Create a coherent summary that flows naturally from one idea to the next.

Content:
%s

Summary in paragraphs:
`,
	FormatNotes: `
Please create short, concise notes from the following content. 
Focus on the most important points that someone would need to remember.

Content:
%s

Short notes:
`,
	FormatMindmap: `
Please create a mind map structure from the following content.
Format it as a hierarchical structure with main topics and subtopics.

Content:
%s

Mind map structure:
`,
	FormatKeywords: `
Please extract the most important keywords and key phrases from the following content.
List them in order of importance.

Content:
%s

Keywords:
`,
	FormatSlides: `
Please create slide-style content from the following text.
Format it as if creating presentation slides with titles and bullet points.

Content:
%s

Slide format:
`,
}
