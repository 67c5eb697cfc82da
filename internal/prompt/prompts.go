// Package prompt holds the fixed instructions sent to the language models and
// the schema of the product search tool.
package prompt

import (
	"fmt"
	"strings"

	"github.com/chat2purchase/shopassist/internal/domain/models"
)

// SearchToolName is the only tool the conversation model may call
const SearchToolName = "search_products_nl"

// System is prepended to the first user message of a session
const System = `You are a shopping assistant for an online shoe store.

Use the tool search_products_nl() when customers ask about:
- Product names, brands, or specific shoes
- Price (e.g., "shoes under $100", "cheap shoes")
- Rating (e.g., "highly rated", "best rated", "4+ stars")
- Category (e.g., "running shoes", "casual", "athletic")
- Any combination of the above (e.g., "cheapest running shoes", "highly rated Nike products")

The database contains products with: id, name, description, price, rating (0-5), category, and image_path.
IMPORTANT: When customers ask about products, you MUST use the search_products_nl() tool. Do NOT ask follow-up questions - use the tool immediately.

CRITICAL: After receiving product results from the tool:
1. Parse the product list from the tool response
2. Select the top 4-7 products (prioritize by rating, then price if needed)
3. Present them in a neat, numbered list format showing: product name, price, rating, and a brief description
4. After showing the list, ALWAYS ask: "Which items would you like to add to your cart? Please let me know the product numbers or names."

Example format:
"Here are some great options I found:

1. [Product Name] - $[price] ⭐ [rating]/5
   [Brief description]

2. [Product Name] - $[price] ⭐ [rating]/5
   [Brief description]

[... continue for 4-7 products ...]

Which items would you like to add to your cart? Please let me know the product numbers or names."

Be friendly, concise, and helpful.`

// FirstTurnInput builds the provider input for a session without a
// continuity token.
func FirstTurnInput(userMessage string) string {
	return System + "\n\nUser: " + userMessage
}

// SearchTool returns the definition of the natural-language product search tool
func SearchTool() models.ToolDefinition {
	return models.ToolDefinition{
		Name: SearchToolName,
		Description: "Search for products using natural language query. " +
			"Use when customers ask about products by name, price, rating, " +
			"category, or combinations. Examples: 'running shoes under $100', " +
			"'highly rated casual shoes', 'Nike products', 'cheapest running shoes'. " +
			"Returns a list of products with id, name, description, price, rating, category, and image_path.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type": "string",
					"description": "Natural language product search query " +
						"(e.g., 'running shoes under $100', 'highly rated casual shoes')",
				},
			},
			"required": []string{"query"},
		},
	}
}

// RecoverySearch is the synthetic user message used to re-query one candidate
func RecoverySearch(name string) string {
	return "search for " + name
}

// Classifier instructs the helper model to answer yes or no
const Classifier = `You decide whether a shopping assistant's reply refers to specific products.
Answer "yes" if the reply names or describes one or more specific products (for example a named shoe, a numbered product list, or a product the customer chose).
Answer "no" if the reply is a greeting, a general question, a clarification request, or contains no specific product.
Respond with exactly one word: yes or no.`

// Extractor instructs the helper model to list the product names mentioned
const Extractor = `Extract the names of the specific products mentioned in the shopping assistant's reply below.
Return ONLY a JSON array of strings with the exact product names as written, for example ["Black Canvas Skate Sneakers", "Trail Runner 2"].
If no product is named, return [].
No explanations, no markdown.`

// SQLSystem is the system message for natural-language to SQL generation
const SQLSystem = "You are a SQL query generator. Return only SQL queries, no explanations."

const schemaDescription = `
Database Schema:
- Table: products
  - id: INTEGER (PRIMARY KEY)
  - name: VARCHAR(255)
  - description: TEXT
  - price: DECIMAL(10, 2)
  - rating: DECIMAL(3, 2) (0-5 scale)
  - category: VARCHAR(100)
  - image_path: VARCHAR(500)
`

// Categories are the catalog categories as stored (lowercase)
var Categories = []string{
	"ankle boots",
	"athletic shoes",
	"boots",
	"casual shoes",
	"creepers",
	"dress shoes",
	"flats",
	"heels",
	"hiking shoes",
	"loafers",
	"sneakers",
	"work shoes",
}

const sqlTemplate = `You are a SQL query generator. Convert the following natural language query to a PostgreSQL SELECT statement.

%s

Valid Categories (use exact match, case-sensitive, all lowercase): %s

Natural Language Query: "%s"

CRITICAL SECURITY RULES - YOU MUST FOLLOW THESE:
- Generate ONLY SELECT statements - NEVER use INSERT, UPDATE, DELETE, DROP, CREATE, ALTER, TRUNCATE, EXEC, or EXECUTE
- Query ONLY the products table - do not access any other tables
- Return ONLY the SQL query, no explanations, no markdown, no code blocks
- Generate valid, executable PostgreSQL SQL that will run without errors

Query Rules:
- Only SELECT from products table
- For category filtering: Match the user's category request to one of the valid categories above. Use exact match with = operator (e.g., category = 'athletic shoes'). If the query doesn't match any valid category, do NOT filter by category.
- For name/brand searches: Use ILIKE with wildcards (e.g., name ILIKE '%%Nike%%')
- Return all columns: SELECT * FROM products
- Add LIMIT 50 to prevent huge result sets
- Use actual values in the query (not parameterized)
- For price comparisons, use direct numeric values (e.g., price <= 100.0)
- For ratings, use direct numeric values (e.g., rating >= 4.0)

Examples:
Query: "running shoes under $100"
SQL: SELECT * FROM products WHERE category = 'athletic shoes' AND price <= 100.0 LIMIT 50

Query: "highly rated casual shoes"
SQL: SELECT * FROM products WHERE category = 'casual shoes' AND rating >= 4.0 LIMIT 50

Query: "Nike products"
SQL: SELECT * FROM products WHERE name ILIKE '%%Nike%%' LIMIT 50

Query: "cheapest sneakers"
SQL: SELECT * FROM products WHERE category = 'sneakers' ORDER BY price ASC LIMIT 50

Query: "shoes under $50"
SQL: SELECT * FROM products WHERE price <= 50.0 LIMIT 50

IMPORTANT: If you cannot generate valid SQL from the given information, return an empty string "" instead of generating invalid SQL.

Now convert this query: "%s"
SQL:`

// SQLUser renders the generation prompt for one query. categories overrides
// the built-in list when non-empty.
func SQLUser(query string, categories []string) string {
	if len(categories) == 0 {
		categories = Categories
	}
	return fmt.Sprintf(sqlTemplate, schemaDescription, strings.Join(categories, ", "), query, query)
}
