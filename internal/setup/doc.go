// Package setup manages the first-run questionnaire: the question set shipped
// with the application and the answers saved as the user configuration.
// Setup counts as completed once a user configuration file exists.
package setup
