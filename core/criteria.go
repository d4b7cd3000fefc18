// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

const (
	// DefaultLimit is the page size used when none is given.
	DefaultLimit = 20
)

// SortOption selects the ordering of criteria search results.
// Storage adapters translate it into their own ordering.
type SortOption int

const (
	// SortNewest orders by creation time, newest first.
	SortNewest SortOption = iota
	// SortOldest orders by creation time, oldest first.
	SortOldest
	// SortMostUpvoted orders by upvote count, highest first.
	SortMostUpvoted
	// SortMostViewed orders by view count, highest first.
	SortMostViewed
	// SortMostAnswered orders by answer count, highest first.
	SortMostAnswered
)

var sortOptionNames = map[SortOption]string{
	SortNewest:       "newest",
	SortOldest:       "oldest",
	SortMostUpvoted:  "most-upvoted",
	SortMostViewed:   "most-viewed",
	SortMostAnswered: "most-answered",
}

// String returns the canonical name of the sort option.
func (s SortOption) String() string {
	if name, ok := sortOptionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SortOption(%d)", int(s))
}

// ParseSortOption converts a name such as "most-upvoted" into a SortOption.
func ParseSortOption(name string) (SortOption, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for opt, n := range sortOptionNames {
		if n == name {
			return opt, nil
		}
	}
	return SortNewest, fmt.Errorf("%w: %q", ErrInvalidSortOption, name)
}

// TextMatch controls how a storage adapter matches SearchText.
type TextMatch int

const (
	// TextMatchPhrase matches documents containing the whole search text.
	TextMatchPhrase TextMatch = iota
	// TextMatchAnyTerm matches documents containing any whitespace-separated term.
	TextMatchAnyTerm
)

// SearchCriteria describes a structured search against a candidate source.
// Use NewSearchCriteria to get clamped Limit and Offset values.
type SearchCriteria struct {
	SearchText     string
	SubjectId      *ID
	Tags           []string // Set semantics, order is irrelevant
	UserId         *ID
	Sort           SortOption
	OnlyUnanswered bool
	OnlySolved     bool
	Limit          int
	Offset         int
	TextMatch      TextMatch
}

// CriteriaOption configures a SearchCriteria.
type CriteriaOption func(*SearchCriteria)

// WithSearchText sets the free text to match.
func WithSearchText(text string) CriteriaOption {
	return func(c *SearchCriteria) {
		c.SearchText = text
	}
}

// WithSubject restricts results to one subject.
func WithSubject(id ID) CriteriaOption {
	return func(c *SearchCriteria) {
		c.SubjectId = IDPtr(id)
	}
}

// WithTags restricts results to documents carrying every given tag.
func WithTags(tags ...string) CriteriaOption {
	return func(c *SearchCriteria) {
		c.Tags = append(c.Tags, tags...)
	}
}

// WithUser restricts results to one author.
func WithUser(id ID) CriteriaOption {
	return func(c *SearchCriteria) {
		c.UserId = IDPtr(id)
	}
}

// WithSort sets the result ordering.
func WithSort(sort SortOption) CriteriaOption {
	return func(c *SearchCriteria) {
		c.Sort = sort
	}
}

// WithOnlyUnanswered keeps only questions without answers.
func WithOnlyUnanswered() CriteriaOption {
	return func(c *SearchCriteria) {
		c.OnlyUnanswered = true
	}
}

// WithOnlySolved keeps only solved questions.
func WithOnlySolved() CriteriaOption {
	return func(c *SearchCriteria) {
		c.OnlySolved = true
	}
}

// WithPage sets limit and offset.
func WithPage(limit, offset int) CriteriaOption {
	return func(c *SearchCriteria) {
		c.Limit = limit
		c.Offset = offset
	}
}

// WithTextMatch sets how SearchText is matched.
func WithTextMatch(match TextMatch) CriteriaOption {
	return func(c *SearchCriteria) {
		c.TextMatch = match
	}
}

// NewSearchCriteria builds criteria from options.
// A non-positive Limit becomes DefaultLimit and a negative Offset becomes 0.
func NewSearchCriteria(opts ...CriteriaOption) *SearchCriteria {
	c := &SearchCriteria{
		Limit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
	return c
}
