package insight

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// RecipeInfo is the slice of a recipe the generator needs.
type RecipeInfo struct {
	Name        string
	Cuisine     string
	Ingredients []string
}

const systemPrompt = "You are a passionate food historian and cultural expert who loves sharing fascinating stories about food traditions around the world. Your responses are warm, engaging, and educational."

func buildPrompt(recipe RecipeInfo) string {
	ingredients := "Not specified"
	if len(recipe.Ingredients) > 0 {
		ingredients = strings.Join(recipe.Ingredients, ", ")
	}

	return fmt.Sprintf(`You are a cultural food expert and cooking historian. Please provide interesting cultural insights about this recipe:

Recipe Name: %s
Cuisine: %s
Ingredients: %s

Please provide:
1. Historical background and cultural significance
2. Traditional cooking techniques or customs
3. Regional variations or family traditions
4. Interesting cultural facts about the ingredients
5. How this dish connects people to their heritage

Keep the response engaging, informative, and about 200-300 words. Make it feel like a knowledgeable friend sharing fascinating food culture stories.`,
		recipe.Name, recipe.Cuisine, ingredients)
}

// Configured reports whether an OpenAI key is available.
func Configured() bool {
	return os.Getenv("OPENAI_API_KEY") != ""
}

// Generate produces a cultural insight for the recipe. Without an API
// key, or when the model call fails, it falls back to the static
// cuisine table so the endpoint keeps working.
func Generate(ctx context.Context, recipe RecipeInfo) string {
	if !Configured() {
		log.Println("OpenAI API key not configured, using fallback insights")
		return Fallback(recipe)
	}

	llm, err := openai.New(openai.WithModel("gpt-3.5-turbo"))
	if err != nil {
		log.Printf("OpenAI client error: %v", err)
		return Fallback(recipe)
	}

	resp, err := llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, buildPrompt(recipe)),
	}, llms.WithMaxTokens(500), llms.WithTemperature(0.7))
	if err != nil {
		log.Printf("OpenAI API error: %v", err)
		return Fallback(recipe)
	}
	if len(resp.Choices) == 0 {
		return Fallback(recipe)
	}

	return resp.Choices[0].Content
}

var fallbackInsights = map[string]string{
	"italian": "%s represents the heart of Italian cooking philosophy - using simple, high-quality ingredients to create something extraordinary. Italian cuisine emphasizes family gatherings around the dinner table, where recipes are passed down through generations, and each region has its own interpretation of classic dishes shaped by local ingredients.",

	"chinese": "%s is rooted in thousands of years of Chinese culinary tradition, where cooking is considered both an art and a way to maintain harmony and balance. Chinese cuisine balances the five flavors and many textures, and food is deeply tied to prosperity, luck, and family unity during celebrations and daily meals.",

	"indian": "%s showcases the incredible diversity of Indian cuisine, where spices are not just flavor enhancers but are believed to have medicinal properties. Many dishes carry religious significance and appear during festivals and ceremonies, and the art of spice blending varies from region to region, often as a closely guarded family secret.",

	"japanese": "%s embodies the Japanese philosophy of washoku - the harmonious relationship between nature, ingredients, and presentation. Japanese cuisine emphasizes seasonal ingredients, minimalism, and the natural flavors of food, so every meal reflects the changing seasons and a deep respect for nature.",

	"mexican": "%s represents the rich fusion of indigenous Mesoamerican and Spanish colonial influences that define Mexican cuisine. Ingredients like corn, beans, and chili peppers were sacred to pre-Hispanic cultures, and food remains central to Mexican celebrations, family gatherings, and cultural identity.",

	"french": "%s exemplifies the French dedication to culinary excellence and the art de vivre. French cuisine has influenced cooking worldwide through its precise techniques and emphasis on quality ingredients, and long, leisurely meals remain an essential part of French social life.",

	"thai": "%s reflects the Thai principle of balancing sweet, sour, salty, and spicy in a single dish. Thai cooking is influenced by Buddhist philosophy, emphasizing fresh ingredients and harmony, and sharing meals is an expression of care and friendship at the center of Thai hospitality.",

	"american": "%s represents the melting pot nature of American cuisine, which combines influences from immigrants around the world with indigenous ingredients and techniques. American food culture emphasizes comfort, abundance, and innovation, and its regional cuisines tell the story of the nation's diverse heritage.",

	"mediterranean": "%s embodies the Mediterranean lifestyle that celebrates fresh, seasonal ingredients and the social side of dining. Built around olive oil, vegetables, seafood, and herbs, Mediterranean meals are meant to be shared slowly with family and friends.",
}

// Fallback returns the static insight for the recipe's cuisine.
func Fallback(recipe RecipeInfo) string {
	cuisine := strings.ToLower(recipe.Cuisine)
	if template, ok := fallbackInsights[cuisine]; ok {
		return fmt.Sprintf(template, recipe.Name)
	}
	return fmt.Sprintf("%s represents a wonderful example of %s cuisine, which has its own cultural traditions and cooking techniques passed down through generations. Food is a universal language that connects us to our heritage and brings people together around the table.",
		recipe.Name, recipe.Cuisine)
}
