// Package planner renders meal plans as a Monday-start week grid of 7 days
// by 3 meal slots. Navigation is limited to the current and next week.
package planner

import (
	"context"
	"time"

	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/record"
)

const dateFormat = "2006-01-02"

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	days := int(t.Weekday()-time.Monday+7) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-days, 0, 0, 0, 0, t.Location())
}

// WeekRange computes the inclusive date bounds for the current week, or the
// next one when next is set.
func WeekRange(today time.Time, next bool) (start, end string) {
	monday := WeekStart(today)
	if next {
		monday = monday.AddDate(0, 0, 7)
	}
	return monday.Format(dateFormat), monday.AddDate(0, 0, 6).Format(dateFormat)
}

// Cell is one day-by-meal slot holding at most one entry.
type Cell struct {
	Date     string
	MealType string
	Entry    *model.MealPlan
}

// Day is one column of the grid.
type Day struct {
	Date  string
	Cells [3]Cell
}

// Grid is a full week of meal slots.
type Grid struct {
	Start string
	End   string
	Days  [7]Day
}

// visible reports whether an entry has anything to show. Entries whose
// recipe reference no longer resolves and which carry no custom text are
// hidden rather than rendered broken.
func visible(p model.MealPlan) bool {
	return p.CustomText != "" || p.Recipe != nil
}

// Build lays plans out on the week starting at startDate. Each cell takes
// the first matching entry; later duplicates for the same slot are ignored.
func Build(plans []model.MealPlan, startDate string) (*Grid, error) {
	monday, err := time.Parse(dateFormat, startDate)
	if err != nil {
		return nil, err
	}

	grid := &Grid{
		Start: startDate,
		End:   monday.AddDate(0, 0, 6).Format(dateFormat),
	}
	for d := 0; d < 7; d++ {
		date := monday.AddDate(0, 0, d).Format(dateFormat)
		grid.Days[d].Date = date
		for m, mealType := range model.MealTypes {
			grid.Days[d].Cells[m] = Cell{Date: date, MealType: mealType}
		}
	}

	for i := range plans {
		p := plans[i]
		if !visible(p) {
			continue
		}
		for d := range grid.Days {
			if grid.Days[d].Date != p.Date {
				continue
			}
			for m, mealType := range model.MealTypes {
				if mealType == p.MealType && grid.Days[d].Cells[m].Entry == nil {
					grid.Days[d].Cells[m].Entry = &p
				}
			}
		}
	}
	return grid, nil
}

// Load queries the active store for a week of plans and builds the grid.
func Load(ctx context.Context, store record.Store, today time.Time, next bool) (*Grid, error) {
	start, end := WeekRange(today, next)
	plans, err := store.ListMealPlans(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return Build(plans, start)
}
