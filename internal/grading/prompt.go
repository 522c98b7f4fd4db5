package grading

import "fmt"

// Instructions is the system role given to the grading model.
const Instructions = "Tu es un professeur de français expérimenté qui corrige des dictées d'élèves " +
	"en Afrique francophone. Tu réponds uniquement avec un objet JSON strictement valide."

const gradingPromptTemplate = `Voici le texte ORIGINAL de la dictée (normalisé, sans casse ni espaces superflus) :
---
%s
---

Et voici ce qu'a écrit l'élève (normalisé de la même façon) :
---
%s
---

Ta mission :
1. Compare le texte de l'élève au texte original en tenant compte du sens global, du contexte, de la syntaxe et de la logique grammaticale, pas mot à mot.
2. Si l'élève a oublié ou ajouté un mot, ne pénalise pas toute la suite : continue l'analyse avec un alignement intelligent.
3. Ignore les répétitions exactes de phrases dictées.
4. Identifie uniquement les vraies erreurs : orthographe, conjugaison, accord, ponctuation, grammaire.
5. Note sur 100 selon ce barème :
   - mot clairement manquant : -5 points
   - erreur d'orthographe : -2 points
   - erreur de grammaire ou d'accord : -3 points
   - erreur de ponctuation : -1 point
   - mauvaise construction ou confusion sémantique : -3 points
   Ne cumule pas les fautes en cascade : une seule pénalité par erreur source.
6. Reconstitue le texte corrigé exactement comme dans la dictée originale, en ne gardant qu'une seule occurrence de chaque phrase répétée.

Pour chaque erreur, donne une description pédagogique : le type d'erreur, la règle concernée et un conseil pour l'éviter.
Ajoute des conseils pédagogiques : un résumé des erreurs fréquentes, des conseils pratiques et des exercices simples.

Réponds STRICTEMENT avec un objet JSON valide, sans texte autour, sans markdown, au format :
{
  "score": <note sur 100>,
  "errors": [{"word": "...", "correction": "...", "description": "..."}],
  "correction": "texte corrigé sans fautes et sans répétitions",
  "total_words": <nombre de mots du texte original>,
  "error_count": <nombre d'erreurs réelles>,
  "pedagogical_advice": {"summary": "...", "tips": ["..."], "exercises": ["..."]}
}`

// BuildPrompt renders the grading request for a normalized reference and
// submission.
func BuildPrompt(normReference, normSubmission string) string {
	return fmt.Sprintf(gradingPromptTemplate, normReference, normSubmission)
}
