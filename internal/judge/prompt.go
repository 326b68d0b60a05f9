package judge

import (
	"fmt"
	"regexp"
	"strings"
)

// 进入提示词前的清洗规则：
// 引号、反引号、反斜杠会干扰提示词结构，尖括号标签可能伪装成指令。
var (
	quoteCharsPattern = regexp.MustCompile("[\"`'\\\\]")
	angleTagPattern   = regexp.MustCompile(`<[^>]*>`)
)

// sanitizeForPrompt 在把自由文本插入LLM提示词之前进行清洗。
// 输入会被统一为小写并去除首尾空白。
func sanitizeForPrompt(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = quoteCharsPattern.ReplaceAllString(text, "")
	text = angleTagPattern.ReplaceAllString(text, "")
	return text
}

const judgmentSystemPrompt = "You are a creative and logical judge for the game 'What Beats What'. " +
	"You evaluate items based on their real-world properties and how they would naturally interact with each other. " +
	"Your judgments should be based on realistic physics, chemistry, and natural laws, while still allowing for creative thinking."

// buildJudgmentPrompt 构造一次对决的用户提示词。
// 两个物品名都已经过清洗，并用定界标签包裹，避免与指令文本混淆。
func buildJudgmentPrompt(currentItem, userInput string) string {
	return fmt.Sprintf(`
You are judging a game of "What Beats What" where items compete based on their real-world properties and interactions.

Given the following comparison:
<current_item>%s</current_item>
<user_input>%s</user_input>

Determine if the user's suggestion beats the current item by considering the following, evaluated in the order presented. Rules from higher categories override lower ones:

    ESTABLISHED GAME RELATIONSHIPS - These are definitive and must be respected:
        Rock-Paper-Scissors rules: Paper beats rock, rock beats scissors, scissors beats paper
        Rock-Paper-Scissors-Lizard-Spock extensions: Lizard beats paper and Spock, Spock beats rock and scissors
        Card game hierarchies: Ace beats King, King beats Queen, etc.
        Chess piece values: Queen beats Rook, Rook beats Bishop/Knight, etc.

    PHYSICAL PROPERTIES:
        State of matter: Gas can disperse liquids, liquids can dissolve solids
        Temperature: Hot items melt cold items, extreme cold freezes liquids
        Hardness: Diamond scratches glass, metal dents wood
        Sharpness: Knife cuts rope, scissors cut paper

    CHEMICAL REACTIONS:
        Water dissolves salt/sugar, acid corrodes metal
        Fire burns paper/wood, water extinguishes fire
        Rust degrades iron, bleach removes color

    TEMPORAL/PROCESS RELATIONSHIPS:
        For time-based interactions, the later stage generally beats the earlier stage
        Example: Butterfly beats caterpillar, adult beats child, cooked food beats raw ingredients
        The more evolved or processed form typically wins

    DEFINITIVE JUDGMENT CRITERIA:
        The relationship must be DIRECT and INEVITABLE when the items interact.
        The winning item must cause a significant, irreversible change or neutralization of the other.
        An item cannot beat an identical item unless a Temporal/Process Relationship applies.
        If the interaction is UNCERTAIN, REVERSIBLE, has NO significant effect, or requires specific unstated circumstances, the challenger LOSES.
        When in doubt, consider what would happen if these items physically encountered each other.

Your response will be automatically formatted as JSON with the following fields:

    result: A boolean indicating if the user's suggestion beats the current item
    description: A brief explanation (<30 words) of why the result is true or false. Make it creative and slightly goofy. Don't use the word "literally."
    emoji: A single relevant emoji that represents the outcome. Do NOT use the cross mark emoji except on failures (❌)!
`, currentItem, userInput)
}

const bandSystemPrompt = "You are a creative writer who generates engaging descriptions and emojis for game statistics."

// buildBandPrompt 构造频率区间文案的用户提示词。
func buildBandPrompt(rangeStart int, rangeEnd *int) string {
	rangeText := fmt.Sprintf("%d+", rangeStart)
	if rangeEnd != nil {
		rangeText = fmt.Sprintf("%d-%d", rangeStart, *rangeEnd)
	}

	return fmt.Sprintf(`
Generate a creative and slightly humorous description and emoji for a comparison that has been used <count_range>%s</count_range> times in a game.

The description should:
1. Be brief (under 20 words)
2. Be engaging and fun
3. Reflect the popularity/frequency of the comparison
4. Not use the word "literally"

The emoji should:
1. Be a single emoji that represents the frequency/popularity
2. Match the tone of the description
3. Be visually distinct from other frequency ranges

Your response will be automatically formatted as JSON with the following fields:
- description: A brief, creative description for this usage frequency
- emoji: A single relevant emoji that represents the frequency
`, sanitizeForPrompt(rangeText))
}

// judgmentSchema 是对决裁决的JSON Schema，所有字段必填且不允许额外字段。
var judgmentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"result": map[string]any{
			"type":        "boolean",
			"description": "Whether the user's suggestion beats the current item",
		},
		"description": map[string]any{
			"type":        "string",
			"description": "Brief explanation of why the result is true or false (<30 words)",
		},
		"emoji": map[string]any{
			"type":        "string",
			"description": "Single relevant emoji that represents the outcome",
		},
	},
	"required":             []string{"result", "description", "emoji"},
	"additionalProperties": false,
}

// bandSchema 是频率区间文案的JSON Schema，没有布尔字段。
var bandSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"description": map[string]any{
			"type":        "string",
			"description": "Brief, creative description for this usage frequency (<20 words)",
		},
		"emoji": map[string]any{
			"type":        "string",
			"description": "Single relevant emoji that represents the frequency",
		},
	},
	"required":             []string{"description", "emoji"},
	"additionalProperties": false,
}
