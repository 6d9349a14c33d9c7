// Package view provides HTML helpers for server-rendered forms and content.
//
// [FormDropdown] and [FormRadio] derive name and id attributes from an
// "model.field" entity path:
//
//	view.FormRadio([]view.Pair{{Value: 1, Label: "Yes"}, {Value: 0, Label: "No"}},
//	    "post.published", view.Attrs{"onchange": "toggle();"}, 1)
//
// renders
//
//	<label class="radio">
//	    <input checked="checked" id="post_published_1" name="post[published]" onchange="toggle();" type="radio" value="1"> Yes
//	</label>
//	<label class="radio">
//	    <input id="post_published_0" name="post[published]" onchange="toggle();" type="radio" value="0"> No
//	</label>
//
// Attributes are written in key order with escaped values, and labels pass
// through bluemonday's strict policy. [Markdown] renders with goldmark and
// sanitizes with the UGC policy.
//
// [Dropdown], [Radio] and [MarkdownBlock] wrap the helpers as templ
// components, and [FuncMap] registers them for html/template.
package view
