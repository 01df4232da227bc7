package usecase

// Prompt text is configuration, not core behavior: these defaults can be
// overridden through the pipeline config.

const defaultSynthesisSystemPrompt = `You are a food label analyst. You combine product packaging data with ` +
	`web research to produce a structured nutrition, ingredient and hormone-impact report. ` +
	`Base every claim on the provided context; when the context is silent, say so in the relevant field. ` +
	`Reply with a single JSON object and nothing else.`

const defaultSynthesisSchemaInstruction = `Reply with one JSON object exactly matching this shape:
{
  "product": {"name": "", "brand": "", "category": ""},
  "nutrition_facts": {
    "serving_size": "",
    "calories": 0,
    "macros": {"protein_g": 0, "carbohydrates_g": 0, "fat_g": 0, "sugar_g": 0, "fiber_g": 0, "sodium_mg": 0}
  },
  "ingredients": [
    {"name": "", "impact": "positive|neutral|negative", "hormone_tags": [""], "notes": ""}
  ],
  "hormonal_impact": {"score": 0, "summary": "", "concerns": [""]},
  "scores": {"overall": 0, "nutrition": 0, "processing_level": 0}
}`
