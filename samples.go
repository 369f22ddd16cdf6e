package modernblog

import "time"

// SamplePosts returns the seed posts shown before anything has been saved.
// The last one is a draft.
func SamplePosts() []Post {
	return []Post{
		samplePost(
			"1",
			"Getting Started with Modern Web Development",
			"Modern web development has evolved significantly over the past few years. With the introduction of new frameworks, tools, and best practices, developers now have more options than ever to build fast, scalable, and maintainable applications.\n\n"+
				"In this post, we'll explore some of the key trends and technologies that are shaping the future of web development, including React, TypeScript, and modern CSS techniques.\n\n"+
				"Whether you're a beginner looking to learn the basics or an experienced developer wanting to stay up-to-date with the latest trends, this guide will provide you with valuable insights and practical tips.",
			"Jane Smith",
			date(2024, 1, 15), date(2024, 1, 15),
			[]string{"web development", "react", "typescript"},
			true,
		),
		samplePost(
			"2",
			"The Future of CSS: New Features and Techniques",
			"CSS continues to evolve with exciting new features that make styling web applications more powerful and intuitive. From CSS Grid and Flexbox to custom properties and container queries, modern CSS provides developers with unprecedented control over layout and design.\n\n"+
				"In this comprehensive guide, we'll dive deep into the latest CSS features and explore how they can be used to create responsive, accessible, and visually stunning web interfaces.",
			"Alex Johnson",
			date(2024, 1, 10), date(2024, 1, 12),
			[]string{"css", "design", "frontend"},
			true,
		),
		samplePost(
			"3",
			"Building Scalable Applications with TypeScript",
			"TypeScript has become an essential tool for building large-scale JavaScript applications. Its static type system helps catch errors early, improves code maintainability, and enhances developer productivity through better tooling and IDE support.",
			"Sarah Davis",
			date(2024, 1, 5), date(2024, 1, 5),
			[]string{"typescript", "javascript", "development"},
			false,
		),
	}
}

func samplePost(id, title, content, author string, created, updated time.Time, tags []string, published bool) Post {
	return Post{
		ID:        id,
		Title:     title,
		Content:   content,
		Excerpt:   Excerpt(content),
		Author:    author,
		CreatedAt: created,
		UpdatedAt: updated,
		Tags:      tags,
		Published: published,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
