package port

import "context"

// PageFetcher retrieves the text content of an upstream price page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// PageFetcherFunc adapts a function to the PageFetcher interface.
type PageFetcherFunc func(ctx context.Context, url string) (string, error)

func (f PageFetcherFunc) FetchPage(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}
