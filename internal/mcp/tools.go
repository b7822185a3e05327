package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions

var questionsToolDef = mcp.NewTool("quiz_questions",
	mcp.WithDescription("List the running shoe quiz questions and their options. Answer each question with one option id."),
)

var recommendToolDef = mcp.NewTool("quiz_recommend",
	mcp.WithDescription("Recommend a running shoe from quiz answers. Returns the primary pick, up to three alternatives, a match percentage (60-98), match reasons and a reasoning paragraph. The result is saved to history unless save is false."),
	mcp.WithArray("answers",
		mcp.Required(),
		mcp.Description("One answer per question. Unknown question or option ids are ignored."),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question_id": map[string]any{"type": "string"},
				"option_id":   map[string]any{"type": "string"},
			},
			"required": []string{"question_id", "option_id"},
		}),
	),
	mcp.WithString("brand_preference",
		mcp.Description("Optional preferred brand. Recorded with the result; does not change scoring."),
	),
	mcp.WithBoolean("save",
		mcp.Description("Save the result to history (default true)."),
	),
)

var catalogListToolDef = mcp.NewTool("catalog_list",
	mcp.WithDescription("List catalog shoes, optionally filtered by category and brand."),
	mcp.WithString("category",
		mcp.Description("Shoe category."),
		mcp.Enum("daily", "super-trainer", "racing", "trail"),
	),
	mcp.WithString("brand",
		mcp.Description("Brand name (case-insensitive)."),
	),
)

var catalogItemToolDef = mcp.NewTool("catalog_item",
	mcp.WithDescription("Get one catalog shoe by id."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Catalog item id."),
	),
)

var resultFetchToolDef = mcp.NewTool("result_fetch",
	mcp.WithDescription("Fetch a saved recommendation by id."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Result ULID."),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Include soft-deleted results."),
	),
)

var resultListToolDef = mcp.NewTool("result_list",
	mcp.WithDescription("List saved recommendations, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results to return (default 20, max 100)."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Results to skip."),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Include soft-deleted results."),
	),
)

var resultDeleteToolDef = mcp.NewTool("result_delete",
	mcp.WithDescription("Soft-delete a saved recommendation. Use result_purge to remove it permanently."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Result ULID."),
	),
)

var resultPurgeToolDef = mcp.NewTool("result_purge",
	mcp.WithDescription("Permanently delete soft-deleted recommendations."),
	mcp.WithNumber("older_than_days",
		mcp.Description("Only purge results deleted more than this many days ago."),
	),
)

var lineBreakToolDef = mcp.NewTool("text_linebreak",
	mcp.WithDescription("Plan readable line breaks for a headline or short paragraph at mobile and desktop widths. Korean, English and mixed text are supported."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text to break."),
	),
	mcp.WithNumber("mobile_target",
		mcp.Description("Mobile line width in estimated character units. Inferred from the script mix when omitted."),
	),
	mcp.WithNumber("desktop_target",
		mcp.Description("Desktop line width in estimated character units. Inferred from the script mix when omitted."),
	),
	mcp.WithNumber("min_token_count",
		mcp.Description("Texts with fewer words are returned as one line (default 7)."),
	),
)
