package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/bluechip"
	"github.com/etnz/bluechip/docs"
	"github.com/etnz/bluechip/renderer"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// ViewFunc values the portfolio at current market prices.
type ViewFunc func(ctx context.Context) (*bluechip.View, error)

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand the value of the stocks in their portfolio,
			and to get news about them.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.
			Answer in markdown.

			The user will assume that you know about their tickers, check the portfolio first to understand what they are.
		`),
		},
		Library: NewLibrary(experts),
		Log:     zerolog.Nop(),
	}
}

// NewTrader returns the expert grounded on Google Search.
func NewTrader(model string, log zerolog.Logger) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		Very well aware of all the financial products and institutions,
		about the latest news about the different funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are a expert in Trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
			`),
		},
		Log: log,
	}
}

// NewAnalyst returns the expert reading the user's portfolio.
func NewAnalyst(model string, view ViewFunc, log zerolog.Logger) *Expert {
	lib := []Function{PortfolioView(view), PortfolioPositions(view), Documentation()}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. They read the user's portfolio valued at current market prices:
		positions, gains, dividends, allocation and the exchange rate used.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
				You are an analyst in charge of the user's portfolio of stocks.
				You know how to use the Tools to extract relevant information about the user's portfolio.
				You are part of a team of experts, yours is everything about the user's portfolio. They might ask
				you questions about the user's portfolio, pardon their approximative language and figure out what they meant.

				Figures marked "unknown" lack market data, "n/a" are ratios of a zero amount.
				Totals leave out the positions without price.
			`),
		},
		Library: NewLibrary(lib),
		Log:     log,
	}
}

// PortfolioView returns the markdown valuation of the portfolio.
func PortfolioView(view ViewFunc) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "portfolio_view",
			Description: `Values the portfolio at current market prices: the total value, the gain and return on investment,
			the cash, the annual dividends, the exchange rate, a table of positions and charts.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"consolidate": {
						Type:        genai.TypeBoolean,
						Description: "Merge the positions of the same ticker into a single row. False by default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The valuation, in markdown.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			v, err := view(ctx)
			if err != nil {
				return "", err
			}
			if consolidate, _ := args["consolidate"].(bool); consolidate {
				v = v.Consolidate()
			}
			return renderer.RenderView(v), nil
		},
	}
}

// PortfolioPositions returns the positions as stored.
func PortfolioPositions(view ViewFunc) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "portfolio_positions",
			Description: `Lists the positions as entered by the user, with their index, quantity and purchase price, and the cash and invested capital.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the positions.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			v, err := view(ctx)
			if err != nil {
				return "", err
			}
			return renderer.RenderPositions(v.State()), nil
		},
	}
}

// Documentation returns a topic of the user documentation.
func Documentation() *Func {
	topics, _ := docs.GetAllTopics()
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "documentation",
			Description: "Reads the documentation of bluechip, about how figures are computed and how to use the tool.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {
						Type:        genai.TypeString,
						Description: "One of: " + strings.Join(topics, ", "),
					},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The topic, in markdown.",
			},
		},
		Func: func(ctx context.Context, args map[string]any) (string, error) {
			topic, ok := args["topic"].(string)
			if !ok {
				return "", fmt.Errorf("argument 'topic' is not a string as expected but %T", args["topic"])
			}
			return docs.GetTopic(topic)
		},
	}
}
