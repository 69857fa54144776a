// Package utils contains general helper functions used across the treetouch tool.
package utils

// GitDirectoryName is the name of the Git repository directory.
const GitDirectoryName = ".git"

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}
