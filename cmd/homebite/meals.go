package main

import (
	"context"
	"fmt"

	"homebite/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var mealsCmd = &cobra.Command{
	Use:   "meals",
	Short: "Browse and manage meals",
}

var mealsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := loadSession()
		var store *client.HTTPStore
		if err == nil {
			store = client.NewHTTPStore(sess.BaseURL)
		} else {
			// browsing is public, no login needed
			store = client.NewHTTPStore("http://localhost:8080")
		}
		meals, err := store.ListMeals(context.Background())
		if err != nil {
			return err
		}
		if len(meals) == 0 {
			fmt.Println("No meals on offer right now.")
			return nil
		}
		for _, m := range meals {
			fmt.Printf("#%-4d %-28s $%-8.2f %-12s by %s\n",
				m.ID, m.Name, m.Price, m.Category, color.CyanString(m.Chef.Name))
		}
		return nil
	},
}

var mealsShowCmd = &cobra.Command{
	Use:   "show MEAL_ID",
	Short: "Show one meal with its reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, _, err := connect()
		if err != nil {
			return err
		}
		ctx := context.Background()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		meal, err := store.GetMeal(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s  $%.2f\n%s\n", color.New(color.Bold).Sprint(meal.Name), meal.Price, meal.Description)

		reviews, err := store.ListReviews(ctx, meal.ID)
		if err != nil {
			return err
		}
		for _, r := range reviews {
			fmt.Printf("  %s %s: %s\n", stars(r.Rating), r.UserName, r.Comment)
		}
		return nil
	},
}

var (
	mealName        string
	mealDescription string
	mealPrice       float64
	mealCategory    string
	mealImageURL    string
)

var mealsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Offer a new meal (chef)",
	RunE: func(cmd *cobra.Command, args []string) error {
		commander, _, actor, err := connect()
		if err != nil {
			return err
		}
		meal, err := commander.AddMeal(context.Background(), actor, client.MealDraft{
			Name:        mealName,
			Description: mealDescription,
			Price:       mealPrice,
			Category:    mealCategory,
			ImageURL:    mealImageURL,
			IsAvailable: true,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Meal #%d %q is on the menu at $%.2f\n", meal.ID, meal.Name, meal.Price)
		return nil
	},
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites [add|remove MEAL_ID]",
	Short: "List or change your favorite meals",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, actor, err := connect()
		if err != nil {
			return err
		}
		ctx := context.Background()

		if len(args) == 2 {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			switch args[0] {
			case "add":
				fav, err := store.AddFavorite(ctx, actor.Email, id)
				if err != nil {
					return err
				}
				fmt.Printf("Added favorite #%d\n", fav.ID)
				return nil
			case "remove":
				if err := store.RemoveFavorite(ctx, id); err != nil {
					return err
				}
				fmt.Println("Removed.")
				return nil
			}
			return fmt.Errorf("unknown subcommand %q", args[0])
		}

		favorites, err := store.ListFavorites(ctx, actor.Email)
		if err != nil {
			return err
		}
		if len(favorites) == 0 {
			fmt.Println("No favorites yet.")
			return nil
		}
		for _, f := range favorites {
			fmt.Printf("#%-4d meal #%-4d %s\n", f.ID, f.MealID, f.Meal.Name)
		}
		return nil
	},
}

var (
	reviewRating  int
	reviewComment string
)

var reviewCmd = &cobra.Command{
	Use:   "review MEAL_ID",
	Short: "Post a review for a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commander, _, actor, err := connect()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		review, err := commander.SubmitReview(context.Background(), actor, client.ReviewDraft{
			MealID:  id,
			Rating:  reviewRating,
			Comment: reviewComment,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Review #%d posted: %s\n", review.ID, stars(review.Rating))
		return nil
	},
}

func stars(n int) string {
	s := ""
	for i := 0; i < 5; i++ {
		if i < n {
			s += "★"
		} else {
			s += "☆"
		}
	}
	return color.YellowString(s)
}

func init() {
	mealsAddCmd.Flags().StringVar(&mealName, "name", "", "meal name")
	mealsAddCmd.Flags().StringVar(&mealDescription, "description", "", "meal description")
	mealsAddCmd.Flags().Float64Var(&mealPrice, "price", 0, "unit price")
	mealsAddCmd.Flags().StringVar(&mealCategory, "category", "", "meal category")
	mealsAddCmd.Flags().StringVar(&mealImageURL, "image", "", "image URL")
	_ = mealsAddCmd.MarkFlagRequired("name")
	_ = mealsAddCmd.MarkFlagRequired("price")

	reviewCmd.Flags().IntVar(&reviewRating, "rating", 5, "rating 1-5")
	reviewCmd.Flags().StringVar(&reviewComment, "comment", "", "review text")

	mealsCmd.AddCommand(mealsListCmd, mealsShowCmd, mealsAddCmd)
	rootCmd.AddCommand(mealsCmd, favoritesCmd, reviewCmd)
}
