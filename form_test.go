package modernblog

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func validDraft() NewPost {
	return NewPost{Title: "Title", Content: "Body", Author: "Jane", Tags: []string{"go"}}
}

func TestValidatePostAcceptsValidDraft(t *testing.T) {
	if errs := ValidatePost(validDraft()); errs != nil {
		t.Errorf("ValidatePost = %v, want nil", errs)
	}
}

func TestValidatePostFieldErrors(t *testing.T) {
	manyTags := make([]string, MaxTags+1)
	for i := range manyTags {
		manyTags[i] = fmt.Sprintf("t%d", i)
	}
	tests := []struct {
		name  string
		edit  func(*NewPost)
		field string
	}{
		{"blank title", func(d *NewPost) { d.Title = "   " }, "title"},
		{"long title", func(d *NewPost) { d.Title = strings.Repeat("t", MaxTitleLength+1) }, "title"},
		{"blank author", func(d *NewPost) { d.Author = "" }, "author"},
		{"long author", func(d *NewPost) { d.Author = strings.Repeat("a", MaxAuthorLength+1) }, "author"},
		{"blank content", func(d *NewPost) { d.Content = "\n\t" }, "content"},
		{"duplicate tags", func(d *NewPost) { d.Tags = []string{"go", "go"} }, "tags"},
		{"too many tags", func(d *NewPost) { d.Tags = manyTags }, "tags"},
		{"long tag", func(d *NewPost) { d.Tags = []string{strings.Repeat("x", MaxTagLength+1)} }, "tags"},
	}
	for _, tt := range tests {
		d := validDraft()
		tt.edit(&d)
		errs := ValidatePost(d)
		if _, ok := errs[tt.field]; !ok || len(errs) != 1 {
			t.Errorf("%s: errors = %v, want only %q", tt.name, errs, tt.field)
		}
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	err := FieldErrors{"title": "Title is required", "author": "Author is required"}
	want := "invalid post: author: Author is required; title: Title is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCleanDraft(t *testing.T) {
	got := CleanDraft(NewPost{
		Title:   "  Hi<script>alert(1)</script>  ",
		Content: `<p onclick="x()">Body</p><img src="data:image/png;base64,AA">`,
		Author:  " Jane ",
		Tags:    []string{" go ", "", "javascript:"},
	})
	if got.Title != "Hi" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Author != "Jane" {
		t.Errorf("Author = %q", got.Author)
	}
	if strings.Contains(got.Content, "onclick") || !strings.Contains(got.Content, "data:image/png;base64,AA") {
		t.Errorf("Content = %q", got.Content)
	}
	if !reflect.DeepEqual(got.Tags, []string{"go"}) {
		t.Errorf("Tags = %v", got.Tags)
	}
}

func TestAddRemoveTag(t *testing.T) {
	tags, ok := AddTag(nil, "  go ")
	if !ok || !reflect.DeepEqual(tags, []string{"go"}) {
		t.Fatalf("AddTag = %v, %v", tags, ok)
	}
	if _, ok := AddTag(tags, "go"); ok {
		t.Error("duplicate tag should be rejected")
	}
	if _, ok := AddTag(tags, "   "); ok {
		t.Error("blank tag should be rejected")
	}
	tags, _ = AddTag(tags, "web")
	if got := RemoveTag(tags, "go"); !reflect.DeepEqual(got, []string{"web"}) {
		t.Errorf("RemoveTag = %v", got)
	}
	if len(tags) != 2 {
		t.Error("RemoveTag must not modify its input")
	}
}
