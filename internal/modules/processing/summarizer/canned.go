package summarizer

// Canned summaries returned by the static generator, one per format.
const (
	cannedBullets = `
• Main topic focuses on AI-powered content summarization technology
• Key benefits include time-saving and improved productivity
• Multiple input formats supported: videos, blogs, PDFs, and text
• Various output formats available: bullets, paragraphs, notes, mind maps
• Advanced AI algorithms ensure accurate and relevant summaries
• User-friendly interface designed for seamless experience
`

	cannedParagraphs = `
This content discusses an innovative AI-powered summarization tool that transforms various types of content into digestible insights. The system supports multiple input formats including video URLs, blog articles, PDF documents, and raw text paragraphs.

The tool offers several output formats to suit different user preferences and use cases. Users can choose from bullet points for quick scanning, structured paragraphs for detailed understanding, concise notes for reference, mind maps for visual learning, keyword extraction for SEO purposes, and slide formats for presentations.

The underlying technology leverages advanced artificial intelligence algorithms to ensure accurate and contextually relevant summaries while maintaining the core message and important details of the original content.
`

	cannedNotes = `
- AI summarization tool for multiple content types
- Supports videos, blogs, PDFs, text input
- Output: bullets, paragraphs, notes, mind maps, keywords, slides
- Time-saving and productivity-focused
- Advanced AI ensures accuracy
- User-friendly design
`

	cannedMindmap = `
AI Summarization Tool
├── Input Types
│   ├── Video URLs (YouTube, Vimeo)
│   ├── Blog Articles & Web Content
│   ├── PDF Documents
│   └── Text Paragraphs
├── Output Formats
│   ├── Bullet Points
│   ├── Structured Paragraphs
│   ├── Short Notes
│   ├── Mind Maps
│   ├── Keywords
│   └── Presentation Slides
└── Benefits
    ├── Time-saving
    ├── Improved Productivity
    ├── Multiple Formats
    └── AI-powered Accuracy
`

	cannedKeywords = `
AI summarization, content processing, video transcription, blog summarization, PDF extraction, text analysis, bullet points, mind mapping, keyword extraction, productivity tool, artificial intelligence, content optimization, document processing, web scraping, YouTube transcripts
`

	cannedSlides = `
Slide 1: AI-Powered Summarization
• Transform any content into digestible insights
• Save time and boost productivity

Slide 2: Supported Input Types
• Video URLs (YouTube, Vimeo, etc.)
• Blog articles and web content
• PDF documents and eBooks
• Raw text and paragraphs

Slide 3: Output Formats
• Bullet points for quick scanning
• Structured paragraphs for detail
• Concise notes for reference
• Visual mind maps
• SEO keywords
• Presentation slides

Slide 4: Key Benefits
• Advanced AI algorithms
• Multiple format support
• User-friendly interface
• Accurate summarization
`
)

var cannedByFormat = map[Format]string{
	FormatBullets:    cannedBullets,
	FormatParagraphs: cannedParagraphs,
	FormatNotes:      cannedNotes,
	FormatMindmap:    cannedMindmap,
	FormatKeywords:   cannedKeywords,
	FormatSlides:     cannedSlides,
}
