package comfy

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	bw "github.com/danfortner/brushwork"
)

// Node is one step of a workflow graph. Inputs hold either literals or
// node references encoded as a two-element array [node-id, output-slot].
type Node struct {
	ClassType string         `json:"class_type"`
	Inputs    map[string]any `json:"inputs"`
}

// Workflow is the node graph submitted to the executor, keyed by node id.
type Workflow map[string]*Node

// Clone deep-copies the workflow through a JSON round trip so a cached
// template is never mutated in place.
func (w Workflow) Clone() (Workflow, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("clone workflow: %w", err)
	}
	var out Workflow
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("clone workflow: %w", err)
	}
	return out, nil
}

// findByClass returns the first node whose class matches one of the given
// class types. Map iteration order is fine here: templates carry at most
// one node of each class we look up.
func (w Workflow) findByClass(classes ...string) (string, *Node, bool) {
	for _, class := range classes {
		for id, node := range w {
			if node.ClassType == class {
				return id, node, true
			}
		}
	}
	return "", nil, false
}

// nodeRef reads an input value as a node reference, returning the
// referenced node id.
func nodeRef(v any) (string, bool) {
	ref, ok := v.([]any)
	if !ok || len(ref) != 2 {
		return "", false
	}
	id, ok := ref[0].(string)
	return id, ok
}

// removeNode deletes a node and strips every input that referenced it, so
// the graph stays valid after the removal.
func (w Workflow) removeNode(id string) {
	delete(w, id)
	for _, node := range w {
		for field, v := range node.Inputs {
			if target, ok := nodeRef(v); ok && target == id {
				delete(node.Inputs, field)
			}
		}
	}
}

// newSeed returns a fresh sampler seed. Kept below 2^53 so the value
// survives the executor's JSON number handling without precision loss.
func newSeed() uint64 {
	return rand.Uint64N(1 << 53)
}

// injectSeed writes a fresh seed into the sampler node, whichever of the
// two conventional field names the template uses.
func injectSeed(sampler *Node) {
	field := "seed"
	if _, ok := sampler.Inputs["noise_seed"]; ok {
		field = "noise_seed"
	}
	sampler.Inputs[field] = newSeed()
}

// tracePositivePrompt follows the sampler's positive input reference to
// the prompt-encoding node, so prompt injection works on user-supplied
// templates without assuming node ids.
func (w Workflow) tracePositivePrompt(sampler *Node) (*Node, bool) {
	id, ok := nodeRef(sampler.Inputs["positive"])
	if !ok {
		return nil, false
	}
	node, ok := w[id]
	return node, ok
}

// setPromptText writes the prompt into whichever text field the encoder
// class uses.
func setPromptText(node *Node, prompt string) {
	if _, ok := node.Inputs["prompt"]; ok {
		node.Inputs["prompt"] = prompt
		return
	}
	node.Inputs["text"] = prompt
}

// buildTextToImage prepares a text-to-image graph. Dimensions and
// checkpoint are only written into the built-in template; a user template
// keeps its own latent size and model choice.
func buildTextToImage(tmpl Workflow, builtin bool, req bw.Request, dims bw.Dimensions) (Workflow, error) {
	wf, err := tmpl.Clone()
	if err != nil {
		return nil, err
	}

	_, sampler, ok := wf.findByClass("KSampler", "KSamplerAdvanced")
	if !ok {
		return nil, fmt.Errorf("template has no sampler node")
	}
	injectSeed(sampler)

	prompt, ok := wf.tracePositivePrompt(sampler)
	if !ok {
		return nil, fmt.Errorf("template sampler has no positive prompt reference")
	}
	setPromptText(prompt, req.Prompt)

	if builtin {
		if _, latent, ok := wf.findByClass("EmptyLatentImage"); ok {
			latent.Inputs["width"] = dims.Width
			latent.Inputs["height"] = dims.Height
		}
		if negID, ok := nodeRef(sampler.Inputs["negative"]); ok {
			if neg, ok := wf[negID]; ok {
				setPromptText(neg, "")
			}
		}
	}
	return wf, nil
}

// buildImageEdit prepares an image-edit graph from uploaded input
// filenames. An empty referenceName drops the reference image node and
// clears the encoders' second-image slots.
func buildImageEdit(tmpl Workflow, builtin bool, req bw.Request, sourceName, referenceName string) (Workflow, error) {
	wf, err := tmpl.Clone()
	if err != nil {
		return nil, err
	}

	src, ok := wf[sourceLoadNodeID]
	if !ok {
		return nil, fmt.Errorf("template has no source image node %q", sourceLoadNodeID)
	}
	src.Inputs["image"] = sourceName

	if referenceName != "" {
		ref, ok := wf[referenceLoadNodeID]
		if !ok {
			return nil, fmt.Errorf("template has no reference image node %q", referenceLoadNodeID)
		}
		ref.Inputs["image"] = referenceName
	} else {
		wf.removeNode(referenceLoadNodeID)
	}

	_, sampler, ok := wf.findByClass("KSampler", "KSamplerAdvanced")
	if !ok {
		return nil, fmt.Errorf("template has no sampler node")
	}
	injectSeed(sampler)

	prompt, ok := wf.tracePositivePrompt(sampler)
	if !ok {
		return nil, fmt.Errorf("template sampler has no positive prompt reference")
	}
	setPromptText(prompt, req.Prompt)

	// The negative encoder keeps whatever text a user template ships with.
	if builtin {
		if negID, ok := nodeRef(sampler.Inputs["negative"]); ok {
			if neg, ok := wf[negID]; ok {
				setPromptText(neg, "")
			}
		}
	}
	return wf, nil
}
