package clix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

type PaginationParams struct {
	PerPage int
	Page    int
}

// ParsePagination reads --per-page and --page. Out-of-range values are left
// for the post service to normalize.
func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	perPage, err := flags.GetInt("per-page")
	if err != nil {
		return PaginationParams{}, err
	}
	page, err := flags.GetInt("page")
	if err != nil {
		return PaginationParams{}, err
	}
	return PaginationParams{PerPage: perPage, Page: page}, nil
}

type CategoryFilter struct {
	Include int64
	Exclude int64
}

func ParseCategoryFilter(flags *pflag.FlagSet) (CategoryFilter, error) {
	include, err := flags.GetInt64("cat")
	if err != nil {
		return CategoryFilter{}, err
	}
	exclude, err := flags.GetInt64("exclude-cat")
	if err != nil {
		return CategoryFilter{}, err
	}
	return CategoryFilter{Include: include, Exclude: exclude}, nil
}

// ParseIDs turns positional arguments into post ids. Each argument may itself
// be a comma-separated list.
func ParseIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, raw := range strings.Split(arg, ",") {
			trimmed := strings.TrimSpace(raw)
			if trimmed == "" {
				continue
			}
			id, err := strconv.ParseInt(trimmed, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid post id %q", trimmed)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
