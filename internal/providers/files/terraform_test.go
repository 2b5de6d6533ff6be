package files

import (
	"testing"
)

const terraformFixture = `
variable "bucket" {}

resource "aws_iam_policy" "admin" {
  name   = "admin"
  policy = <<EOF
{
  "Version": "2012-10-17",
  "Statement": [{"Effect": "Allow", "Action": "*", "Resource": "*"}]
}
EOF
}

resource "aws_iam_role_policy" "dynamic" {
  role   = "r"
  policy = jsonencode({ Statement = var.statements })
}

resource "aws_s3_bucket" "ignored" {
  bucket = "x"
}

data "aws_iam_policy_document" "reader" {
  statement {
    sid       = "Read"
    actions   = ["s3:GetObject", "s3:*"]
    resources = ["arn:aws:s3:::${var.bucket}/*"]
  }
  statement {
    effect    = "Deny"
    actions   = "iam:*"
    resources = ["*"]
  }
}
`

func TestLoadTerraformPolicies(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.tf", terraformFixture)
	docs, dynamic, err := LoadTerraformPolicies(path)
	if err != nil {
		t.Fatalf("LoadTerraformPolicies: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("want 2 documents, got %d", len(docs))
	}

	admin := docs[0]
	if admin.Source != "resource.aws_iam_policy.admin" || !admin.Qualified {
		t.Errorf("admin: source %q qualified %v", admin.Source, admin.Qualified)
	}
	if len(admin.Statement) != 1 || admin.Statement[0].Action[0] != "*" {
		t.Errorf("admin statements: %+v", admin.Statement)
	}

	reader := docs[1]
	if reader.Source != "data.aws_iam_policy_document.reader" {
		t.Errorf("reader source: %q", reader.Source)
	}
	if len(reader.Statement) != 2 {
		t.Fatalf("reader: want 2 statements, got %d", len(reader.Statement))
	}
	first := reader.Statement[0]
	if first.Sid != "Read" || first.Effect != "Allow" {
		t.Errorf("first statement sid=%q effect=%q", first.Sid, first.Effect)
	}
	if len(first.Action) != 2 || first.Action[1] != "s3:*" {
		t.Errorf("first actions: %v", first.Action)
	}
	if len(first.Resource) != 0 {
		t.Errorf("interpolated resources must be left empty, got %v", first.Resource)
	}
	if second := reader.Statement[1]; second.Effect != "Deny" || len(second.Action) != 1 || second.Action[0] != "iam:*" {
		t.Errorf("second statement: %+v", second)
	}

	want := []string{"resource.aws_iam_role_policy.dynamic", "data.aws_iam_policy_document.reader"}
	if len(dynamic) != len(want) {
		t.Fatalf("dynamic: got %v; want %v", dynamic, want)
	}
	for i := range want {
		if dynamic[i] != want[i] {
			t.Errorf("dynamic[%d]: got %q; want %q", i, dynamic[i], want[i])
		}
	}
}

func TestLoadTerraformPolicies_SyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.tf", `resource "aws_iam_policy" "x" {`)
	if _, _, err := LoadTerraformPolicies(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadTerraformPolicies_MalformedPolicyJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.tf", `
resource "aws_iam_policy" "x" {
  policy = "{not json"
}
`)
	if _, _, err := LoadTerraformPolicies(path); err == nil {
		t.Error("expected JSON error")
	}
}

func TestLoadTerraformPolicies_LiteralJSONEncode(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.tf", `
resource "aws_iam_policy" "admin" {
  name = "admin"
  policy = jsonencode({
    Version   = "2012-10-17"
    Statement = [{ Effect = "Allow", Action = "*", Resource = ["arn:aws:s3:::*"] }]
  })
}
`)
	docs, dynamic, err := LoadTerraformPolicies(path)
	if err != nil {
		t.Fatalf("LoadTerraformPolicies: %v", err)
	}
	if len(dynamic) != 0 {
		t.Errorf("literal jsonencode must be analyzed, got dynamic %v", dynamic)
	}
	if len(docs) != 1 || len(docs[0].Statement) != 1 {
		t.Fatalf("docs: %+v", docs)
	}
	st := docs[0].Statement[0]
	if len(st.Action) != 1 || st.Action[0] != "*" || len(st.Resource) != 1 || st.Resource[0] != "arn:aws:s3:::*" {
		t.Errorf("statement: %+v", st)
	}
}

func TestLoadTerraformPolicies_DynamicStatement(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.tf", `
data "aws_iam_policy_document" "unrolled" {
  statement {
    actions   = ["s3:GetObject"]
    resources = ["arn:aws:s3:::logs/*"]
  }
  dynamic "statement" {
    for_each = [{ actions = ["*"], resources = ["*"] }, { actions = ["ec2:*"], resources = ["*"] }]
    iterator = grant
    content {
      actions   = grant.value.actions
      resources = grant.value.resources
    }
  }
}

data "aws_iam_policy_document" "from_var" {
  dynamic "statement" {
    for_each = var.grants
    content {
      actions   = ["*"]
      resources = ["*"]
    }
  }
}
`)
	docs, dynamic, err := LoadTerraformPolicies(path)
	if err != nil {
		t.Fatalf("LoadTerraformPolicies: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("want 2 documents, got %d", len(docs))
	}

	unrolled := docs[0].Statement
	if len(unrolled) != 3 {
		t.Fatalf("unrolled: want 3 statements, got %+v", unrolled)
	}
	if unrolled[1].Action[0] != "*" || unrolled[1].Resource[0] != "*" || unrolled[2].Action[0] != "ec2:*" {
		t.Errorf("unrolled statements: %+v", unrolled)
	}

	if len(docs[1].Statement) != 0 {
		t.Errorf("from_var: want no statements, got %+v", docs[1].Statement)
	}
	if len(dynamic) != 1 || dynamic[0] != "data.aws_iam_policy_document.from_var" {
		t.Errorf("dynamic = %v; want [data.aws_iam_policy_document.from_var]", dynamic)
	}
}
