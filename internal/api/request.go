package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ivcompat/ivcompat/internal/infusion"
)

// solveRequest is the parsed form of "GET /results?num_ivs=<N>&ivs=<JSON>&add=<id>...".
type solveRequest struct {
	NumIVs int
	Seeds  [][]infusion.ID
	Extra  []infusion.ID
}

func parseSolveRequest(r *http.Request) (solveRequest, error) {
	q := r.URL.Query()

	numIVsStr := q.Get("num_ivs")
	if numIVsStr == "" {
		return solveRequest{}, MalformedRequestError{Reason: "num_ivs is required"}
	}
	numIVs, err := strconv.Atoi(numIVsStr)
	if err != nil || numIVs < 0 {
		return solveRequest{}, MalformedRequestError{Reason: "num_ivs must be a non-negative integer"}
	}

	var rawSeeds [][]int64
	if ivsStr := q.Get("ivs"); ivsStr != "" {
		if err := json.Unmarshal([]byte(ivsStr), &rawSeeds); err != nil {
			return solveRequest{}, MalformedRequestError{Reason: "ivs must be a JSON array of arrays of infusion IDs: " + err.Error()}
		}
	}
	if len(rawSeeds) != numIVs {
		return solveRequest{}, MalformedRequestError{Reason: "ivs must have exactly num_ivs entries"}
	}

	seeds := make([][]infusion.ID, len(rawSeeds))
	for i, raw := range rawSeeds {
		ids := make([]infusion.ID, len(raw))
		for j, v := range raw {
			ids[j] = infusion.ID(v)
		}
		seeds[i] = ids
	}

	var extra []infusion.ID
	for _, addStr := range q["add"] {
		v, err := strconv.ParseInt(addStr, 10, 64)
		if err != nil {
			return solveRequest{}, MalformedRequestError{Reason: "add must be integer infusion IDs: " + err.Error()}
		}
		extra = append(extra, infusion.ID(v))
	}

	return solveRequest{NumIVs: numIVs, Seeds: seeds, Extra: extra}, nil
}

// universe returns every ID touched by the request: seeded IDs plus extras.
func (req solveRequest) universe() []infusion.ID {
	var out []infusion.ID
	for _, ivGroup := range req.Seeds {
		out = append(out, ivGroup...)
	}
	out = append(out, req.Extra...)
	return out
}
