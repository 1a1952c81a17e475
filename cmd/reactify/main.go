// Command reactify sanitizes markup with a reactify policy and prints the
// result.
//
// Usage:
//
//	# Sanitize stdin with the default policy, print the tree as JSON
//	echo '<p class="x" onclick="y">hi</p>' | reactify
//
//	# Sanitize a file with a custom policy and print HTML
//	reactify --policy policy.yaml --format html page.html
//
//	# Show which tags a policy allows
//	reactify policy --policy policy.yaml
package main

func main() {
	Execute()
}
