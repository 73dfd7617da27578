package orders

import "testing"

func TestSearchURL(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		retailer string
		want     string
	}{
		{
			name:     "amazon",
			product:  "olive oil",
			retailer: "Amazon",
			want:     "https://www.amazon.com/s?k=olive+oil",
		},
		{
			name:     "amazon grocery uses the fresh department",
			product:  "milk",
			retailer: "Amazon Grocery",
			want:     "https://www.amazon.com/s?k=milk&i=amazonfresh",
		},
		{
			name:     "amazon fresh alias",
			product:  "milk",
			retailer: "amazon fresh",
			want:     "https://www.amazon.com/s?k=milk&i=amazonfresh",
		},
		{
			name:     "walmart",
			product:  "socks",
			retailer: "Walmart",
			want:     "https://www.walmart.com/search?q=socks",
		},
		{
			name:     "target",
			product:  "desk lamp",
			retailer: "Target",
			want:     "https://www.target.com/s?searchTerm=desk+lamp",
		},
		{
			name:     "empty retailer defaults to amazon",
			product:  "batteries",
			retailer: "",
			want:     "https://www.amazon.com/s?k=batteries",
		},
		{
			name:     "unknown retailer falls back to web search",
			product:  "batteries",
			retailer: "Costco",
			want:     "https://www.google.com/search?q=batteries",
		},
		{
			name:     "query characters escaped",
			product:  "salt & pepper",
			retailer: "Amazon",
			want:     "https://www.amazon.com/s?k=salt+%26+pepper",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchURL(tt.product, tt.retailer)
			if got != tt.want {
				t.Errorf("SearchURL(%q, %q) = %q, want %q", tt.product, tt.retailer, got, tt.want)
			}
		})
	}
}
