// Package view derives what a map UI shows from a vehicle snapshot: search
// filtering, route search results, the selected marker and marker styling.
// Every function is pure and safe to call on any snapshot.
package view
