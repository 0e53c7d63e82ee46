// Package links builds the outbound URLs attached to gift ideas. Both
// functions are pure: the share codec relies on re-deriving image URLs from
// keywords, so identical input must always yield identical output.
package links

import "net/url"

const imageEndpoint = "https://tse2.mm.bing.net/th"

// ImageURL embeds the keyword in the image-search thumbnail endpoint.
// Fixed parameters select a 500x500 square crop, a resized fit and moderate
// content filtering.
func ImageURL(keyword string) string {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("w", "500")
	q.Set("h", "500")
	q.Set("c", "7")
	q.Set("rs", "1")
	q.Set("p", "0")
	q.Set("adlt", "moderate")
	return imageEndpoint + "?" + q.Encode()
}

// ProductSearchURL links a rendered gift out to a generic web search for
// "title retailer buy online".
func ProductSearchURL(title, retailer string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(title+" "+retailer+" buy online")
}
