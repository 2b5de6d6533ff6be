package files

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// resourceTypesWithPolicyJSON are the Terraform resources whose policy
// attribute holds a JSON policy document.
var resourceTypesWithPolicyJSON = map[string]bool{
	"aws_iam_policy":       true,
	"aws_iam_role_policy":  true,
	"aws_iam_user_policy":  true,
	"aws_iam_group_policy": true,
	"aws_s3_bucket_policy": true,
}

// LoadTerraformPolicies extracts the IAM policy documents declared in a
// Terraform file: the JSON policy attribute of IAM resources (a literal
// string or a jsonencode of literals) and the statement blocks of
// aws_iam_policy_document data sources, including dynamic "statement"
// blocks over a literal for_each. Documents are returned in block order,
// each qualified by its block reference (for example
// data.aws_iam_policy_document.admin).
//
// Policies that depend on a Terraform run (variables, references, other
// functions) are not fully analyzed; their block references are returned in
// dynamic. A data source listed in dynamic is still returned in docs with
// the statements that could be read.
func LoadTerraformPolicies(path string) (docs []*models.PolicyDocument, dynamic []string, err error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("parse terraform %s: %s", path, diags.Error())
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, nil, fmt.Errorf("parse terraform %s: unexpected body type %T", path, file.Body)
	}

	root := &hcl.EvalContext{Functions: map[string]function.Function{
		"jsonencode": stdlib.JSONEncodeFunc,
	}}

	for _, blk := range body.Blocks {
		if len(blk.Labels) < 2 {
			continue
		}
		ref := fmt.Sprintf("%s.%s.%s", blk.Type, blk.Labels[0], blk.Labels[1])

		switch blk.Type {
		case "resource":
			if !resourceTypesWithPolicyJSON[blk.Labels[0]] {
				continue
			}
			attr, ok := blk.Body.Attributes["policy"]
			if !ok {
				continue
			}
			raw, ok := staticString(attr.Expr, root)
			if !ok {
				dynamic = append(dynamic, ref)
				continue
			}
			doc, err := ParsePolicyJSON(ref, []byte(raw))
			if err != nil {
				return nil, nil, fmt.Errorf("parse policy of %s in %s: %w", ref, path, err)
			}
			doc.Qualified = true
			docs = append(docs, doc)

		case "data":
			if blk.Labels[0] != "aws_iam_policy_document" {
				continue
			}
			doc, complete := policyDocumentFromBlock(blk, ref, root)
			if !complete {
				dynamic = append(dynamic, ref)
			}
			docs = append(docs, doc)
		}
	}
	return docs, dynamic, nil
}

// policyDocumentFromBlock converts the statement blocks of an
// aws_iam_policy_document data source. complete is false when some
// statement could not be evaluated statically and was left empty or
// dropped.
func policyDocumentFromBlock(blk *hclsyntax.Block, ref string, root *hcl.EvalContext) (*models.PolicyDocument, bool) {
	doc := &models.PolicyDocument{Source: ref, Qualified: true}
	complete := true

	for _, st := range blk.Body.Blocks {
		switch {
		case st.Type == "statement":
			stmt, ok := statementFromBody(st.Body, root)
			complete = complete && ok
			doc.Statement = append(doc.Statement, stmt)

		case st.Type == "dynamic" && len(st.Labels) == 1 && st.Labels[0] == "statement":
			stmts, ok := unrollDynamicStatement(st.Body, root)
			complete = complete && ok
			doc.Statement = append(doc.Statement, stmts...)
		}
	}
	return doc, complete
}

// unrollDynamicStatement expands a dynamic "statement" block whose for_each
// is a literal collection. The content block is evaluated once per element
// with the iterator (default "statement") bound to {key, value}.
func unrollDynamicStatement(body *hclsyntax.Body, root *hcl.EvalContext) ([]models.PolicyStatement, bool) {
	var content *hclsyntax.Body
	for _, b := range body.Blocks {
		if b.Type == "content" {
			content = b.Body
		}
	}
	forEach, ok := body.Attributes["for_each"]
	if !ok || content == nil {
		return nil, false
	}
	coll, ok := staticValue(forEach.Expr, root)
	if !ok || !coll.CanIterateElements() {
		return nil, false
	}

	iter := "statement"
	if attr, ok := body.Attributes["iterator"]; ok {
		trav, diags := hcl.AbsTraversalForExpr(attr.Expr)
		if diags.HasErrors() {
			return nil, false
		}
		iter = trav.RootName()
	}

	var out []models.PolicyStatement
	complete := true
	for it := coll.ElementIterator(); it.Next(); {
		k, v := it.Element()
		child := root.NewChild()
		child.Variables = map[string]cty.Value{
			iter: cty.ObjectVal(map[string]cty.Value{"key": k, "value": v}),
		}
		stmt, ok := statementFromBody(content, child)
		complete = complete && ok
		out = append(out, stmt)
	}
	return out, complete
}

// statementFromBody reads one statement. ok is false when an attribute was
// present but not static; that attribute is left empty.
func statementFromBody(body *hclsyntax.Body, ctx *hcl.EvalContext) (models.PolicyStatement, bool) {
	ok := true
	list := func(name string) models.StringList {
		attr, present := body.Attributes[name]
		if !present {
			return nil
		}
		vals, static := staticStrings(attr.Expr, ctx)
		if !static {
			ok = false
			return nil
		}
		return vals
	}
	scalar := func(name, fallback string) string {
		attr, present := body.Attributes[name]
		if !present {
			return fallback
		}
		s, static := staticString(attr.Expr, ctx)
		if !static {
			ok = false
			return fallback
		}
		return s
	}
	stmt := models.PolicyStatement{
		Sid:         scalar("sid", ""),
		Effect:      scalar("effect", "Allow"),
		Action:      list("actions"),
		NotAction:   list("not_actions"),
		Resource:    list("resources"),
		NotResource: list("not_resources"),
	}
	return stmt, ok
}

// staticValue evaluates expr against ctx, which carries only jsonencode and
// any iterator bound by a dynamic block. References to anything else fail
// evaluation and report false.
func staticValue(expr hcl.Expression, ctx *hcl.EvalContext) (cty.Value, bool) {
	v, diags := expr.Value(ctx)
	if diags.HasErrors() || v.IsNull() || !v.IsWhollyKnown() {
		return cty.NilVal, false
	}
	return v, true
}

func staticString(expr hcl.Expression, ctx *hcl.EvalContext) (string, bool) {
	v, ok := staticValue(expr, ctx)
	if !ok || v.Type() != cty.String {
		return "", false
	}
	return v.AsString(), true
}

// staticStrings accepts a string or a tuple/list/set of strings.
func staticStrings(expr hcl.Expression, ctx *hcl.EvalContext) ([]string, bool) {
	v, ok := staticValue(expr, ctx)
	if !ok {
		return nil, false
	}
	if v.Type() == cty.String {
		return []string{v.AsString()}, true
	}
	t := v.Type()
	if !t.IsTupleType() && !t.IsListType() && !t.IsSetType() {
		return nil, false
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.IsNull() || ev.Type() != cty.String {
			return nil, false
		}
		out = append(out, ev.AsString())
	}
	return out, true
}
