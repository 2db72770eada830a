package llm

// entityExtractionPrompt instructs the model to return entity candidates
// for one text chunk as strict JSON. The chunk is appended after the prompt.
const entityExtractionPrompt = `You are an expert knowledge graph extractor. Your task is to identify and extract meaningful entities from the provided text.

### Target Schema
Return a JSON object with a single key "entities" containing a list of objects. Each object must have:
- "name": The canonical name of the entity (string).
- "type": One of ["PERSON", "ORGANIZATION", "CONCEPT", "DATE", "PAPER", "LOCATION"].
- "confidence": A value between 0.0 and 1.0 indicating your certainty.

### Entity Types
- PERSON: Real people (e.g., "Jennifer Doudna", "Sam Altman").
- ORGANIZATION: Companies, institutions, groups as entities (e.g., "Google", "University of California"). NOT their products.
- CONCEPT: Abstract ideas, technologies, fields of study, scientific terms, products, platforms, services (e.g., "CRISPR", "Machine Learning", "GPT-4").
- DATE: Specific dates or years (e.g., "2023", "January 1st").
- PAPER: Research papers, books, or distinct creative works (e.g., "Attention Is All You Need").
- LOCATION: Cities, countries, regions, physical places (e.g., "San Francisco", "Silicon Valley").

### Constraints
1. Output strictly valid JSON. Do NOT include markdown formatting (like ` + "```json" + `).
2. Deduplicate entities within the text (merge variations to the most canonical name).
3. Do not extract generic nouns (e.g., "technology", "researchers") unless they are specific concepts.
4. If a term is ambiguous, use context to decide.

### Task
Extract entities from the following text:
`

// classifyPromptTemplate renders the relationship classification request.
// The model must answer with a single JSON object {"type": ..., "confidence": ...}.
const classifyPromptTemplate = `Analyze the relationship between these two entities based on the text snippets.

Entity 1: {{.Source}}{{if .SourceType}} (TYPE: {{.SourceType}}){{end}}
Entity 2: {{.Target}}{{if .TargetType}} (TYPE: {{.TargetType}}){{end}}

Context Snippets:
{{range .Snippets}}- {{.}}
{{end}}
Classify the relationship into ONE of these types (use EXACT lowercase format):
- founded (person founded organization, or founded in year/location)
- works_at (person works at organization)
- ceo_of (person is CEO of organization)
- located_in (entity located in place)
- headquartered_in (organization HQ in location)
- uses (entity uses technology/concept)
- part_of (entity is part of another)
- authored (person wrote paper/book)
- created (entity created another)
- developed (entity developed concept/technology)
- studied_at (person studied at institution)
- colleague_of (person works with person)
- collaborated_with (entities worked together)
- acquired_by (organization acquired by another)
- born_in (person born in location)
- lives_in (person lives in location)
- related_to (ONLY if no specific type fits)

CRITICAL INSTRUCTIONS:
1. Look at the TEXT CAREFULLY - if it says "founded", use "founded"
2. Consider entity types - PERSON+ORGANIZATION often means founded/works_at/ceo_of
3. ORGANIZATION+LOCATION means located_in or headquartered_in
4. PREFER SPECIFIC TYPES - only use "related_to" if truly unclear
5. Return relationship type in LOWERCASE

Return JSON only (no markdown, no extra text):
{"type": "relationship_type", "confidence": 0.8}`
