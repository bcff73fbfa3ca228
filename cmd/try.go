package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/disha-labs/intern-recommender/internal/catalog"
	"github.com/disha-labs/intern-recommender/internal/logger"
	"github.com/disha-labs/intern-recommender/internal/recommend"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var tryCmd = &cobra.Command{
	Use:   "try",
	Short: "Build a candidate profile interactively and print recommendations",
	Run: func(cmd *cobra.Command, _ []string) {
		try(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tryCmd)
}

func try(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	profile, err := promptProfile()
	if err != nil {
		logger.Fatal("reading the profile", zap.Error(err))
	}

	provider, err := newProvider(ctx, config)
	if err != nil {
		logger.Fatal("creating the embedding provider", zap.Error(err))
	}

	engine, err := loadEngine(config, provider, logger)
	if err != nil {
		logger.Fatal("loading the engine",
			zap.String("artifact", config.ArtifactFile),
			zap.Error(err),
			zap.String("hint", "run build-index first"),
		)
	}

	recs, err := engine.Recommend(ctx, profile)
	if err != nil {
		logger.Fatal("getting recommendations", zap.Error(err))
	}

	if len(recs) == 0 {
		logger.Info("no listings scored above the threshold for this profile")
		return
	}

	printRecommendations(recs)
}

func promptProfile() (*recommend.CandidateProfile, error) {
	educationPrompt := promptui.Select{
		Label: "Education level",
		Items: []string{
			catalog.Qualification12th,
			catalog.QualificationDiploma,
			catalog.QualificationUG,
			catalog.QualificationPG,
		},
	}
	_, education, err := educationPrompt.Run()
	if err != nil {
		return nil, err
	}

	skills, err := promptList("Skills (comma separated)", true)
	if err != nil {
		return nil, err
	}

	sectors, err := promptList("Preferred sectors (comma separated, optional)", false)
	if err != nil {
		return nil, err
	}

	locations, err := promptList("Preferred locations (comma separated, optional)", false)
	if err != nil {
		return nil, err
	}

	remotePrompt := promptui.Select{
		Label: "Open to remote work?",
		Items: []string{PromptYes, PromptNo},
	}
	_, remote, err := remotePrompt.Run()
	if err != nil {
		return nil, err
	}

	stipendPrompt := promptui.Prompt{Label: "Expected stipend, e.g. 5000-8000 (optional)"}
	stipend, err := stipendPrompt.Run()
	if err != nil {
		return nil, err
	}

	return &recommend.CandidateProfile{
		EducationLevel:     education,
		Skills:             skills,
		PreferredSectors:   sectors,
		PreferredLocations: locations,
		RemoteOK:           remote == PromptYes,
		StipendPref:        strings.TrimSpace(stipend),
	}, nil
}

func promptList(label string, required bool) ([]string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if required && strings.TrimSpace(input) == "" {
				return fmt.Errorf("at least one value is required")
			}
			return nil
		},
	}

	raw, err := prompt.Run()
	if err != nil {
		return nil, err
	}

	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}

func printRecommendations(recs []*recommend.Recommendation) {
	for i, rec := range recs {
		fmt.Printf("%d. %s at %s (%s, score %.2f)\n",
			i+1, rec.Title, rec.Organization, rec.ScoringBreakdown.RecommendationStrength, rec.Score)

		if rec.Location.City != "" || rec.Location.State != "" {
			location := rec.Location.City
			if rec.Location.State != "" {
				if location != "" {
					location += ", "
				}
				location += rec.Location.State
			}
			fmt.Printf("   Location: %s", location)
			if rec.RemoteAllowed {
				fmt.Print(" (remote allowed)")
			}
			fmt.Println()
		}

		if rec.Stipend != "" {
			fmt.Printf("   Stipend: %s\n", rec.Stipend)
		}

		for _, reason := range rec.MatchReasons {
			fmt.Printf("   - %s\n", reason)
		}

		fmt.Printf("   %s\n\n", rec.ExplainText)
	}
}
