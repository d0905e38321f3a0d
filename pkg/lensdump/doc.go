// Package lensdump extracts images and albums from lensdump.com.
//
// Pages are read with literal marker search over the site's template.
// Listing pages are walked from the oldest page forward by following
// "next" links; every list item carries a URL-encoded JSON object
// describing one image.
//
//	client := lensdump.NewClient(cfg.Lensdump)
//	ex, err := lensdump.Find(client, "https://lensdump.com/a/1IhJr")
//	for msg, err := range ex.Items(ctx) {
//		...
//	}
package lensdump
