// Package pitcher defines the pitcher-season record shown by the dashboard
// and builds it from the game log.
//
// A Record holds a starter's games started, wins and losses, the per-start
// decision sequence, and the two luck measures: mean run support and mean
// team errors in the pitcher's starts. ERA, the skill measure, comes from a
// separate per-season table and is joined on the Retrosheet pitcher ID.
package pitcher
