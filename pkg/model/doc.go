// Package model provides lazily materialised model collections over query
// results.
//
// A [Collection] wraps a [Cursor] (usually a *db.ResultSet) and builds
// models only when an offset is first read. Each model receives the
// collection's [Mapper] so that fields missing from the original row can be
// loaded on demand.
//
//	type Post struct{ model.Record }
//
//	posts := model.NewCollection(mapper, func() *Post { return &Post{} }, nil)
//	err := posts.Find(ctx, func(ctx context.Context, m *model.TableMapper) (model.Cursor, error) {
//		return m.FindBy(ctx, db.Bind{"status": "published"}, db.OrderBy("id DESC"))
//	})
//	for i, post := range posts.All() {
//		fmt.Println(i, post.Field("title"))
//	}
//
// Removing an offset tombstones it: iteration skips it and the next element
// is still visited.
package model
